package checkout

import "github.com/angelmondragon/ecodott-storefront/internal/customers"

// CustomerRequest is decoded without tags; the machine reports every missing field.
type CustomerRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
	Pincode string `json:"pincode"`
}

func (c CustomerRequest) details() customers.Details {
	return customers.Details{
		Name:    c.Name,
		Phone:   c.Phone,
		Email:   c.Email,
		Address: c.Address,
		Pincode: c.Pincode,
	}
}

type MethodRequest struct {
	Method string `json:"method" validate:"required"`
}

type AppRequest struct {
	App string `json:"app" validate:"required"`
}

type UPIIDRequest struct {
	UPIID string `json:"upiId" validate:"required"`
}
