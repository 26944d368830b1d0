package domain

type User struct {
	ID      int32  `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	IsAdmin bool   `json:"is_admin"`
}
