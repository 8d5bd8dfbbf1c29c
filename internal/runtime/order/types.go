// Package order defines the canonical order model and the transformation
// from the inbound raw document into it.
package order

// Address is shared between billing and delivery.
type Address struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// ContractDetails describes the service contract attached to the order.
type ContractDetails struct {
	ContractID       string  `json:"contractId"`
	ServicePlan      string  `json:"servicePlan"`
	CommitmentPeriod string  `json:"commitmentPeriod"`
	MonthlyFee       float64 `json:"monthlyFee"`
}

// Product describes the ordered hardware.
type Product struct {
	Type      string   `json:"type"`
	Model     string   `json:"model"`
	Version   string   `json:"version"`
	Features  []string `json:"features"`
	Quantity  int      `json:"quantity"`
	UnitPrice int      `json:"unitPrice"`
}

// Delivery describes how the order reaches the customer.
type Delivery struct {
	Method                string  `json:"method"`
	TrackingNumber        string  `json:"trackingNumber"`
	EstimatedDeliveryDate string  `json:"estimatedDeliveryDate"`
	DeliveryAddress       Address `json:"deliveryAddress"`
	DeliveryInstructions  string  `json:"deliveryInstructions"`
}

// Discount describes a price reduction on the order.
type Discount struct {
	Type        string `json:"type"`
	Amount      int    `json:"amount"`
	Description string `json:"description"`
}

// Payment describes how the order is paid.
type Payment struct {
	Method          string   `json:"method"`
	PONumber        string   `json:"poNumber"`
	TotalPrice      int      `json:"totalPrice"`
	InstallationFee int      `json:"installationFee"`
	Discount        Discount `json:"discount"`
}

// Customer describes the ordering company. The contact person is flattened
// into Contact/Email/JobTitle on the canonical Order.
type Customer struct {
	AccountType    string  `json:"accountType"`
	CompanyName    string  `json:"companyName"`
	BillingAddress Address `json:"billingAddress"`
}

// Order is the canonical representation produced by Transform. It lives for
// one orchestration run only; durability after publish belongs to the broker.
type Order struct {
	OrderID   string `json:"orderId"`
	OrderDate string `json:"orderDate"`

	// Contact is firstName + " " + lastName from the raw document. The
	// joining rule is fixed for downstream compatibility: always exactly one
	// separating space, even when either name is empty.
	Contact  string `json:"contact"`
	Email    string `json:"email"`
	JobTitle string `json:"jobTitle"`

	Customer        Customer        `json:"customer"`
	ContractDetails ContractDetails `json:"contractDetails"`
	Product         Product         `json:"product"`
	Delivery        Delivery        `json:"delivery"`
	Payment         Payment         `json:"payment"`
}

// TransformError reports a missing required field in the raw document. It is
// permanent: malformed input will not become valid on retry.
type TransformError struct {
	Field string
}

func (e *TransformError) Error() string {
	return "order transform: missing required field: " + e.Field
}

func missing(field string) error {
	return &TransformError{Field: field}
}
