package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/andersonlima/go-ecommerce-events/internal/aws"
	"github.com/andersonlima/go-ecommerce-events/internal/events"
	"github.com/andersonlima/go-ecommerce-events/internal/orders"
	"github.com/andersonlima/go-ecommerce-events/internal/products"
	"github.com/andersonlima/go-ecommerce-events/internal/validation"
)

// RegisterOrdersRoutes registers the order API. Order lifecycle events fan
// out through the SNS topic; like product events, emission never affects
// the response and never rolls back a store write.
func RegisterOrdersRoutes(r *gin.Engine, cfg HandlerConfig) {
	v := validation.New()
	orderStore := orders.NewStore(cfg.DynamoDBClient, cfg.OrdersTable)
	productStore := products.NewStore(cfg.DynamoDBClient, cfg.ProductsTable)
	publisher := aws.NewTopicPublisher(cfg.SNSClient, cfg.OrderEventsTopicARN)
	log := cfg.Logger

	emit := func(c *gin.Context, o *orders.Order, eventType events.EventType) {
		codes := make([]string, 0, len(o.Products))
		for _, p := range o.Products {
			codes = append(codes, p.Code)
		}
		ev := events.OrderEvent{
			ProductCodes: codes,
			Email:        o.PK,
			OrderID:      o.SK,
			Billing:      o.Billing,
			Shipping:     o.Shipping,
			RequestID:    requestID(c),
		}
		data, err := json.Marshal(ev)
		if err != nil {
			log.Error("marshal order event", zap.Error(err))
			return
		}
		env := events.Envelope{EventType: eventType, Data: data}
		msgID, err := publisher.PublishEnvelope(c.Request.Context(), env)
		if err != nil {
			log.Error("order event not published",
				zap.String("eventType", string(eventType)),
				zap.String("orderId", o.SK),
				zap.Error(err),
			)
			return
		}
		log.Info("order event published",
			zap.String("eventType", string(eventType)),
			zap.String("orderId", o.SK),
			zap.String("messageId", msgID),
		)
	}

	r.GET("/orders", func(c *gin.Context) {
		ctx := c.Request.Context()
		email := c.Query("email")
		orderID := c.Query("orderId")

		switch {
		case email != "" && orderID != "":
			o, err := orderStore.GetByEmailAndID(ctx, email, orderID)
			if err != nil {
				if errors.Is(err, orders.ErrNotFound) {
					c.String(http.StatusNotFound, err.Error())
					return
				}
				log.Error("get order", zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "get_order_failed"})
				return
			}
			c.JSON(http.StatusOK, orders.ToResponse(*o))
		case email != "":
			list, err := orderStore.GetByEmail(ctx, email)
			if err != nil {
				log.Error("list orders by owner", zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "list_orders_failed"})
				return
			}
			c.JSON(http.StatusOK, toResponses(list))
		default:
			list, err := orderStore.GetAll(ctx)
			if err != nil {
				log.Error("list orders", zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "list_orders_failed"})
				return
			}
			c.JSON(http.StatusOK, toResponses(list))
		}
	})

	r.POST("/orders", func(c *gin.Context) {
		ctx := c.Request.Context()

		var req validation.CreateOrderRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}

		resolved, err := productStore.GetByIDs(ctx, req.ProductIDs)
		if err != nil {
			log.Error("resolve order products", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "resolve_products_failed"})
			return
		}

		// All-or-nothing: every distinct id must resolve or no order is
		// created. The batch fetch returns only the resolved subset.
		if len(resolved) != len(distinct(req.ProductIDs)) {
			c.String(http.StatusNotFound, "Some product was not found")
			return
		}

		created, err := orderStore.Create(ctx, buildOrder(req, resolved))
		if err != nil {
			log.Error("create order", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "create_order_failed"})
			return
		}

		emit(c, created, events.OrderCreated)
		c.JSON(http.StatusCreated, orders.ToResponse(*created))
	})

	r.DELETE("/orders", func(c *gin.Context) {
		email := c.Query("email")
		orderID := c.Query("orderId")
		if email == "" || orderID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email and orderId are required"})
			return
		}

		deleted, err := orderStore.Delete(c.Request.Context(), email, orderID)
		if err != nil {
			if errors.Is(err, orders.ErrNotFound) {
				c.String(http.StatusNotFound, err.Error())
				return
			}
			log.Error("delete order", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "delete_order_failed"})
			return
		}

		emit(c, deleted, events.OrderDeleted)
		c.JSON(http.StatusOK, orders.ToResponse(*deleted))
	})
}

// buildOrder snapshots {code, price} per requested id. Duplicate ids become
// distinct order lines sharing the same snapshot, and totalPrice sums over
// the lines.
func buildOrder(req validation.CreateOrderRequest, resolved []products.Product) orders.Order {
	byID := make(map[string]products.Product, len(resolved))
	for _, p := range resolved {
		byID[p.ID] = p
	}

	var total float64
	lines := make([]orders.OrderProduct, 0, len(req.ProductIDs))
	for _, id := range req.ProductIDs {
		p := byID[id]
		total += p.Price
		lines = append(lines, orders.OrderProduct{Code: p.Code, Price: p.Price})
	}

	return orders.Order{
		PK: req.Email,
		Billing: orders.Billing{
			Payment:    req.Payment,
			TotalPrice: total,
		},
		Shipping: orders.Shipping{
			Type:    req.Shipping.Type,
			Carrier: req.Shipping.Carrier,
		},
		Products: lines,
	}
}

func distinct(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func toResponses(list []orders.Order) []orders.OrderResponse {
	out := make([]orders.OrderResponse, 0, len(list))
	for _, o := range list {
		out = append(out, orders.ToResponse(o))
	}
	return out
}
