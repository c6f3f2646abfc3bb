package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/andersonlima/go-ecommerce-events/internal/aws"
	"github.com/andersonlima/go-ecommerce-events/internal/events"
	"github.com/andersonlima/go-ecommerce-events/internal/products"
	"github.com/andersonlima/go-ecommerce-events/internal/validation"
)

// RegisterProductsRoutes registers the product API. Mutations emit lifecycle
// events through the events function; emission is fire-and-forget, so a
// failed invoke is logged and never rolls back the store write.
func RegisterProductsRoutes(r *gin.Engine, cfg HandlerConfig) {
	v := validation.New()
	store := products.NewStore(cfg.DynamoDBClient, cfg.ProductsTable)
	invoker := aws.NewFunctionInvoker(cfg.LambdaClient, cfg.EventsFunctionName)
	log := cfg.Logger

	emit := func(c *gin.Context, p *products.Product, eventType events.EventType) {
		ev := events.ProductEvent{
			RequestID:    requestID(c),
			EventType:    eventType,
			ProductID:    p.ID,
			ProductCode:  p.Code,
			ProductPrice: p.Price,
			Email:        c.Query("email"),
		}
		data, err := json.Marshal(ev)
		if err != nil {
			log.Error("marshal product event", zap.Error(err))
			return
		}
		env := events.Envelope{EventType: eventType, Data: data}
		if err := invoker.InvokeEnvelope(c.Request.Context(), env); err != nil {
			log.Error("product event not delivered",
				zap.String("eventType", string(eventType)),
				zap.String("productId", p.ID),
				zap.Error(err),
			)
			return
		}
		log.Info("product event sent",
			zap.String("eventType", string(eventType)),
			zap.String("productId", p.ID),
		)
	}

	r.GET("/products", func(c *gin.Context) {
		list, err := store.GetAll(c.Request.Context())
		if err != nil {
			log.Error("list products", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "list_products_failed"})
			return
		}
		c.JSON(http.StatusOK, list)
	})

	r.GET("/products/:id", func(c *gin.Context) {
		p, err := store.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, products.ErrNotFound) {
				c.String(http.StatusNotFound, "Product not found")
				return
			}
			log.Error("get product", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "get_product_failed"})
			return
		}
		c.JSON(http.StatusOK, p)
	})

	r.POST("/products", func(c *gin.Context) {
		var req validation.CreateProductRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			// BindAndValidate already wrote a 400
			return
		}

		created, err := store.Create(c.Request.Context(), productFromRequest(req))
		if err != nil {
			log.Error("create product", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "create_product_failed"})
			return
		}

		emit(c, created, events.ProductCreated)
		c.JSON(http.StatusCreated, created)
	})

	r.PUT("/products/:id", func(c *gin.Context) {
		var req validation.CreateProductRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}

		updated, err := store.Update(c.Request.Context(), c.Param("id"), productFromRequest(req))
		if err != nil {
			if errors.Is(err, products.ErrNotFound) {
				// conditional check failed: no record to update
				c.String(http.StatusNotFound, "Product not found")
				return
			}
			log.Error("update product", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "update_product_failed"})
			return
		}

		emit(c, updated, events.ProductUpdated)
		c.JSON(http.StatusOK, updated)
	})

	r.DELETE("/products/:id", func(c *gin.Context) {
		deleted, err := store.Delete(c.Request.Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, products.ErrNotFound) {
				c.String(http.StatusNotFound, err.Error())
				return
			}
			log.Error("delete product", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "delete_product_failed"})
			return
		}

		emit(c, deleted, events.ProductDeleted)
		c.JSON(http.StatusOK, deleted)
	})
}

func productFromRequest(req validation.CreateProductRequest) products.Product {
	return products.Product{
		ProductName: req.ProductName,
		Code:        req.Code,
		Price:       req.Price,
		Model:       req.Model,
		ProductURL:  req.ProductURL,
	}
}
