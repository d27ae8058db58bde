package models

// Shared request/response envelopes referenced by handlers and swagger
// annotations.

// ErrorResponse is used in @Failure for error responses
type ErrorResponse struct {
	Error   string `json:"error" example:"Invalid input"`
	Details string `json:"details,omitempty" example:""`
}

// MessageResponse is the generic response for APIs that return only {"message": "..."}
type MessageResponse struct {
	Message string `json:"message" example:"Success"`
}

type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Pagination Pagination  `json:"pagination"`
}

type Pagination struct {
	CurrentPage  int  `json:"current_page"`
	PageSize     int  `json:"page_size"`
	TotalRecords int  `json:"total_records"`
	TotalPages   int  `json:"total_pages"`
	HasNext      bool `json:"has_next"`
	HasPrev      bool `json:"has_prev"`
}

// QuoteContact is the buyer block of a quote submission.
type QuoteContact struct {
	Company string `json:"company" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Phone   string `json:"phone" binding:"required,min=7"`
	Rut     string `json:"rut"`
}

// QuoteItemInput is one cart line as submitted by the public site. Name,
// price and the rest are a client-side cache; the catalog row is the source
// of truth for the generated document.
type QuoteItemInput struct {
	ProductID       uint     `json:"product_id" binding:"required"`
	Name            string   `json:"name"`
	Quantity        float64  `json:"qty" binding:"required,gt=0"`
	Price           float64  `json:"price"`
	Discount        float64  `json:"discount"`
	UpdatePrice     *float64 `json:"update_price"`
	Characteristics string   `json:"characteristics"`
	UnitSize        string   `json:"unit_size"`
	MeasurementUnit string   `json:"measurement_unit"`
	SKU             string   `json:"sku"`
	ImageURL        string   `json:"image_url"`
}

// QuoteSubmissionRequest is the POST /api/quotes payload.
type QuoteSubmissionRequest struct {
	Contact QuoteContact     `json:"contact" binding:"required"`
	Items   []QuoteItemInput `json:"items" binding:"required,min=1,dive"`
}

// QuoteSubmissionResponse reports the persisted quote plus the outcome of the
// non-fatal email step. EmailSuccess false means "quote saved, notification
// failed" and the UI must show a warning, not an error.
type QuoteSubmissionResponse struct {
	QuoteID      uint   `json:"quote_id"`
	QuoteNumber  string `json:"quote_number"`
	Correlative  string `json:"correlative"`
	ItemsSaved   int    `json:"items_saved"`
	EmailSuccess bool   `json:"email_success"`
}

// CorrelativeResponse is returned by the next-correlative endpoints. Error
// carries the scan failure text when the allocator fell back to defaults.
type CorrelativeResponse struct {
	Current string `json:"current" example:"0007"`
	Next    string `json:"next" example:"0008"`
	Error   string `json:"error,omitempty"`
}

// LoginRequest is used in @Param for login body
type LoginRequest struct {
	Email    string `json:"email" binding:"required" example:"staff@fasercon.cl"`
	Password string `json:"password" binding:"required" example:"password"`
}

// LoginResponse is used in @Success for login
type LoginResponse struct {
	Message      string    `json:"message" example:"User successfully logged in"`
	AccessToken  string    `json:"access_token" example:"eyJhbGc..."`
	RefreshToken string    `json:"refresh_token" example:"eyJhbGc..."`
	SessionID    string    `json:"session_id" example:"uuid"`
	Role         string    `json:"role" example:"admin"`
	User         LoginUser `json:"user"`
}

// LoginUser is the user object inside LoginResponse
type LoginUser struct {
	ID      uint   `json:"id" example:"1"`
	Email   string `json:"email" example:"staff@fasercon.cl"`
	Company string `json:"company" example:"fasercon"`
}

// ValidateSessionResponse is used in @Success for validate session
type ValidateSessionResponse struct {
	Valid   bool   `json:"valid" example:"true"`
	Email   string `json:"email,omitempty"`
	Company string `json:"company,omitempty"`
}

// EmailData carries the variables substituted into outbound mail bodies.
type EmailData struct {
	CustomerName string
	Email        string
	QuoteNumber  string
	Correlative  string
	CompanyName  string
	ResetLink    string
	SupportEmail string
}
