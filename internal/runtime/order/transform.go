package order

import (
	"fmt"

	"github.com/fiberline/orderflow/internal/runtime/jsoncodec"
)

// Raw document types. Every required leaf is a pointer so an absent key can
// be told apart from a present-but-empty value; the contract allows empty
// strings (the contact joining rule depends on that) but never absent keys.

type rawDocument struct {
	Order *rawOrder `json:"order"`
}

type rawOrder struct {
	OrderID         *string             `json:"orderId"`
	OrderDate       *string             `json:"orderDate"`
	Customer        *rawCustomer        `json:"customer"`
	ContractDetails *rawContractDetails `json:"contractDetails"`
	Product         *rawProduct         `json:"product"`
	Delivery        *rawDelivery        `json:"delivery"`
	Payment         *rawPayment         `json:"payment"`
}

type rawCustomer struct {
	AccountType    *string           `json:"accountType"`
	CompanyName    *string           `json:"companyName"`
	ContactPerson  *rawContactPerson `json:"contactPerson"`
	BillingAddress *rawAddress       `json:"billingAddress"`
}

type rawContactPerson struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Email     *string `json:"email"`
	JobTitle  *string `json:"jobTitle"`
}

type rawAddress struct {
	Street     *string `json:"street"`
	City       *string `json:"city"`
	PostalCode *string `json:"postalCode"`
	Country    *string `json:"country"`
}

type rawContractDetails struct {
	ContractID       *string  `json:"contractId"`
	ServicePlan      *string  `json:"servicePlan"`
	CommitmentPeriod *string  `json:"commitmentPeriod"`
	MonthlyFee       *float64 `json:"monthlyFee"`
}

type rawProduct struct {
	Type      *string  `json:"type"`
	Model     *string  `json:"model"`
	Version   *string  `json:"version"`
	Features  []string `json:"features"`
	Quantity  *int     `json:"quantity"`
	UnitPrice *int     `json:"unitPrice"`
}

type rawDelivery struct {
	Method                *string     `json:"method"`
	TrackingNumber        *string     `json:"trackingNumber"`
	EstimatedDeliveryDate *string     `json:"estimatedDeliveryDate"`
	DeliveryAddress       *rawAddress `json:"deliveryAddress"`
	DeliveryInstructions  *string     `json:"deliveryInstructions"`
}

type rawPayment struct {
	Method          *string      `json:"method"`
	PONumber        *string      `json:"poNumber"`
	TotalPrice      *int         `json:"totalPrice"`
	InstallationFee *int         `json:"installationFee"`
	Discount        *rawDiscount `json:"discount"`
}

type rawDiscount struct {
	Type        *string `json:"type"`
	Amount      *int    `json:"amount"`
	Description *string `json:"description"`
}

// Transform maps a raw order document onto the canonical Order. It is a pure
// function: no side effects, and a given document always produces the same
// result. Any missing required field yields a *TransformError naming it.
func Transform(doc []byte) (*Order, error) {
	var raw rawDocument
	if err := jsoncodec.Unmarshal(doc, &raw); err != nil {
		return nil, fmt.Errorf("order transform: malformed document: %w", err)
	}
	return transformRaw(&raw)
}

func transformRaw(raw *rawDocument) (*Order, error) {
	if raw == nil || raw.Order == nil {
		return nil, missing("order")
	}
	o := raw.Order

	if o.OrderID == nil {
		return nil, missing("orderId")
	}
	if o.OrderDate == nil {
		return nil, missing("orderDate")
	}

	customer, contact, err := transformCustomer(o.Customer)
	if err != nil {
		return nil, err
	}
	contract, err := transformContract(o.ContractDetails)
	if err != nil {
		return nil, err
	}
	product, err := transformProduct(o.Product)
	if err != nil {
		return nil, err
	}
	delivery, err := transformDelivery(o.Delivery)
	if err != nil {
		return nil, err
	}
	payment, err := transformPayment(o.Payment)
	if err != nil {
		return nil, err
	}

	return &Order{
		OrderID:         *o.OrderID,
		OrderDate:       *o.OrderDate,
		Contact:         contact.contact,
		Email:           contact.email,
		JobTitle:        contact.jobTitle,
		Customer:        customer,
		ContractDetails: contract,
		Product:         product,
		Delivery:        delivery,
		Payment:         payment,
	}, nil
}

type flattenedContact struct {
	contact  string
	email    string
	jobTitle string
}

func transformCustomer(c *rawCustomer) (Customer, flattenedContact, error) {
	if c == nil {
		return Customer{}, flattenedContact{}, missing("customer")
	}
	if c.AccountType == nil {
		return Customer{}, flattenedContact{}, missing("accountType")
	}
	if c.CompanyName == nil {
		return Customer{}, flattenedContact{}, missing("companyName")
	}

	person := c.ContactPerson
	if person == nil {
		return Customer{}, flattenedContact{}, missing("contactPerson")
	}
	if person.FirstName == nil {
		return Customer{}, flattenedContact{}, missing("firstName")
	}
	if person.LastName == nil {
		return Customer{}, flattenedContact{}, missing("lastName")
	}
	if person.Email == nil {
		return Customer{}, flattenedContact{}, missing("email")
	}
	if person.JobTitle == nil {
		return Customer{}, flattenedContact{}, missing("jobTitle")
	}

	billing, err := transformAddress(c.BillingAddress, "billingAddress")
	if err != nil {
		return Customer{}, flattenedContact{}, err
	}

	return Customer{
			AccountType:    *c.AccountType,
			CompanyName:    *c.CompanyName,
			BillingAddress: billing,
		}, flattenedContact{
			// Fixed joining rule: firstName, one space, lastName. No trimming,
			// even when a name is empty.
			contact:  *person.FirstName + " " + *person.LastName,
			email:    *person.Email,
			jobTitle: *person.JobTitle,
		}, nil
}

func transformAddress(a *rawAddress, object string) (Address, error) {
	if a == nil {
		return Address{}, missing(object)
	}
	if a.Street == nil {
		return Address{}, missing("street")
	}
	if a.City == nil {
		return Address{}, missing("city")
	}
	if a.PostalCode == nil {
		return Address{}, missing("postalCode")
	}
	if a.Country == nil {
		return Address{}, missing("country")
	}
	return Address{
		Street:     *a.Street,
		City:       *a.City,
		PostalCode: *a.PostalCode,
		Country:    *a.Country,
	}, nil
}

func transformContract(c *rawContractDetails) (ContractDetails, error) {
	if c == nil {
		return ContractDetails{}, missing("contractDetails")
	}
	if c.ContractID == nil {
		return ContractDetails{}, missing("contractId")
	}
	if c.ServicePlan == nil {
		return ContractDetails{}, missing("servicePlan")
	}
	if c.CommitmentPeriod == nil {
		return ContractDetails{}, missing("commitmentPeriod")
	}
	if c.MonthlyFee == nil {
		return ContractDetails{}, missing("monthlyFee")
	}
	return ContractDetails{
		ContractID:       *c.ContractID,
		ServicePlan:      *c.ServicePlan,
		CommitmentPeriod: *c.CommitmentPeriod,
		MonthlyFee:       *c.MonthlyFee,
	}, nil
}

func transformProduct(p *rawProduct) (Product, error) {
	if p == nil {
		return Product{}, missing("product")
	}
	if p.Type == nil {
		return Product{}, missing("type")
	}
	if p.Model == nil {
		return Product{}, missing("model")
	}
	if p.Version == nil {
		return Product{}, missing("version")
	}
	if p.Features == nil {
		return Product{}, missing("features")
	}
	if p.Quantity == nil {
		return Product{}, missing("quantity")
	}
	if p.UnitPrice == nil {
		return Product{}, missing("unitPrice")
	}
	return Product{
		Type:      *p.Type,
		Model:     *p.Model,
		Version:   *p.Version,
		Features:  p.Features,
		Quantity:  *p.Quantity,
		UnitPrice: *p.UnitPrice,
	}, nil
}

func transformDelivery(d *rawDelivery) (Delivery, error) {
	if d == nil {
		return Delivery{}, missing("delivery")
	}
	if d.Method == nil {
		return Delivery{}, missing("method")
	}
	if d.TrackingNumber == nil {
		return Delivery{}, missing("trackingNumber")
	}
	if d.EstimatedDeliveryDate == nil {
		return Delivery{}, missing("estimatedDeliveryDate")
	}
	address, err := transformAddress(d.DeliveryAddress, "deliveryAddress")
	if err != nil {
		return Delivery{}, err
	}
	if d.DeliveryInstructions == nil {
		return Delivery{}, missing("deliveryInstructions")
	}
	return Delivery{
		Method:                *d.Method,
		TrackingNumber:        *d.TrackingNumber,
		EstimatedDeliveryDate: *d.EstimatedDeliveryDate,
		DeliveryAddress:       address,
		DeliveryInstructions:  *d.DeliveryInstructions,
	}, nil
}

func transformPayment(p *rawPayment) (Payment, error) {
	if p == nil {
		return Payment{}, missing("payment")
	}
	if p.Method == nil {
		return Payment{}, missing("method")
	}
	if p.PONumber == nil {
		return Payment{}, missing("poNumber")
	}
	if p.TotalPrice == nil {
		return Payment{}, missing("totalPrice")
	}
	if p.InstallationFee == nil {
		return Payment{}, missing("installationFee")
	}
	if p.Discount == nil {
		return Payment{}, missing("discount")
	}
	if p.Discount.Type == nil {
		return Payment{}, missing("discount.type")
	}
	if p.Discount.Amount == nil {
		return Payment{}, missing("discount.amount")
	}
	if p.Discount.Description == nil {
		return Payment{}, missing("discount.description")
	}
	return Payment{
		Method:          *p.Method,
		PONumber:        *p.PONumber,
		TotalPrice:      *p.TotalPrice,
		InstallationFee: *p.InstallationFee,
		Discount: Discount{
			Type:        *p.Discount.Type,
			Amount:      *p.Discount.Amount,
			Description: *p.Discount.Description,
		},
	}, nil
}
