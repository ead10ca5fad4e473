package commerce

import "github.com/shopspring/decimal"

// Product is the catalog payload returned by the commerce backend. Grouped
// listings fold variant families into one entry carrying the variant list.
type Product struct {
	ID               string          `json:"_id"`
	Name             string          `json:"name"`
	Description      string          `json:"description,omitempty"`
	StoreDescription string          `json:"storeDescription,omitempty"`
	Price            decimal.Decimal `json:"price"`
	Image            *ProductImage   `json:"image,omitempty"`
	Category         *CategoryRef    `json:"categoryId,omitempty"`
	Stock            int             `json:"stock"`
	IsActive         bool            `json:"isActive,omitempty"`
	Featured         bool            `json:"featured,omitempty"`

	IsGroup         bool                `json:"isGroup,omitempty"`
	Attributes      []string            `json:"attributes,omitempty"`
	AttributeValues map[string][]string `json:"attributeValues,omitempty"`
	Variants        []ProductVariant    `json:"variants,omitempty"`
}

type ProductImage struct {
	URL        string           `json:"url,omitempty"`
	Thumbnails *ImageThumbnails `json:"thumbnails,omitempty"`
}

type ImageThumbnails struct {
	Small  string `json:"small,omitempty"`
	Medium string `json:"medium,omitempty"`
}

type CategoryRef struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

type ProductVariant struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Price      decimal.Decimal   `json:"price"`
	Stock      int               `json:"stock"`
	Image      string            `json:"image,omitempty"`
	Attributes map[string]string `json:"variantAttributes,omitempty"`
}

type Category struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

// OrderCustomer identifies who placed the order. Email and address are
// optional for guest checkouts.
type OrderCustomer struct {
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone"`
	Address string `json:"address,omitempty"`
}

// OrderItem deliberately carries only the product reference and quantity.
// The backend is the sole authority on price and availability.
type OrderItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type OrderRequest struct {
	Customer       OrderCustomer `json:"customer"`
	Items          []OrderItem   `json:"items"`
	Notes          string        `json:"notes,omitempty"`
	OrderMode      string        `json:"orderMode"`
	ShippingMethod string        `json:"shippingMethod,omitempty"`
	PaymentMethod  string        `json:"paymentMethod,omitempty"`
}

type OrderResult struct {
	OrderNumber string `json:"orderNumber"`
	Status      string `json:"status"`
}

type orderResponse struct {
	Success bool        `json:"success"`
	Order   OrderResult `json:"order"`
	Message string      `json:"message,omitempty"`
}

type Customer struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Email       string           `json:"email"`
	Phone       string           `json:"phone,omitempty"`
	Address     string           `json:"address,omitempty"`
	TotalOrders int              `json:"totalOrders,omitempty"`
	TotalSpent  *decimal.Decimal `json:"totalSpent,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Phone    string `json:"phone,omitempty"`
}

// AuthResult carries the bearer token issued by the backend plus the customer
// profile it resolves to.
type AuthResult struct {
	Token    string   `json:"token"`
	Customer Customer `json:"customer"`
}

type CustomerOrderItem struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Image    string          `json:"image,omitempty"`
}

type TransferDetails struct {
	BankName string `json:"bankName,omitempty"`
	CBU      string `json:"cbu,omitempty"`
	Alias    string `json:"alias,omitempty"`
	Holder   string `json:"holder,omitempty"`
}

type OrderPaymentMethod struct {
	Method string `json:"method"`
	Label  string `json:"label"`
}

type CustomerOrder struct {
	ID              string              `json:"id"`
	OrderNumber     string              `json:"orderNumber"`
	Items           []CustomerOrderItem `json:"items"`
	Total           decimal.Decimal     `json:"total"`
	Status          string              `json:"status"`
	CreatedAt       string              `json:"createdAt"`
	UpdatedAt       string              `json:"updatedAt,omitempty"`
	PaymentMethod   *OrderPaymentMethod `json:"paymentMethod,omitempty"`
	TransferDetails *TransferDetails    `json:"transferDetails,omitempty"`
}

type meResponse struct {
	Customer Customer `json:"customer"`
}

type ordersResponse struct {
	Orders []CustomerOrder `json:"orders"`
}

type errorResponse struct {
	Message string `json:"message"`
}
