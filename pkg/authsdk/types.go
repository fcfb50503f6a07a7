package authsdk

// SendCodeRequest asks for a verification code to be emailed.
type SendCodeRequest struct {
	Email string `json:"email"`
}

// VerifyCodeRequest submits a received code for verification.
type VerifyCodeRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// SuccessResponse is the body of every successful 2FA operation.
type SuccessResponse struct {
	Success bool `json:"success"`
}

// ErrorResponse is the body of every failed operation.
type ErrorResponse struct {
	Error string `json:"error"`
}

// SessionResponse reports the role/verification state bound to a session.
// Role is null until second-factor onboarding completes.
type SessionResponse struct {
	Email       string  `json:"email"`
	Role        *string `json:"role"`
	MFAVerified bool    `json:"mfa_verified"`
}

// InvoiceItemRequest is one line of an invoice mail request.
type InvoiceItemRequest struct {
	Product  string  `json:"product"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
	Subtotal float64 `json:"subtotal"`
}

// InvoiceRequest asks for an invoice to be emailed to a client.
type InvoiceRequest struct {
	ClientEmail   string               `json:"clientEmail"`
	ClientName    string               `json:"clientName"`
	InvoiceNumber string               `json:"invoiceNumber"`
	Items         []InvoiceItemRequest `json:"items"`
	Total         float64              `json:"total"`
	Date          string               `json:"date"`
}

// HealthResponse is returned by the liveness and readiness endpoints.
type HealthResponse struct {
	Status  string        `json:"status"`
	Version string        `json:"version"`
	Uptime  string        `json:"uptime"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports the readiness of each critical dependency.
type HealthChecks struct {
	Store  string `json:"store"`
	Mailer string `json:"mailer"`
}
