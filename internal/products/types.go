package products

// Product represents the item stored in the products DynamoDB table.
// The id is assigned server-side on create and never changes.
type Product struct {
	ID          string  `dynamodbav:"id" json:"id"` // PK
	ProductName string  `dynamodbav:"productName" json:"productName"`
	Code        string  `dynamodbav:"code" json:"code"`
	Price       float64 `dynamodbav:"price" json:"price"`
	Model       string  `dynamodbav:"model" json:"model"`
	ProductURL  string  `dynamodbav:"productUrl" json:"productUrl"`
}
