package domain

type Notification struct {
	ID         int32             `json:"id"`
	UserID     int32             `json:"user_id"`
	Title      string            `json:"title"`
	Message    string            `json:"message"`
	IsRead     bool              `json:"is_read"`
	Attributes map[string]string `json:"attributes,omitempty"`
	CreatedOn  string            `json:"created_on"`
}
