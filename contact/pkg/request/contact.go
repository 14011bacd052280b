package request

type Contact struct {
	From     string `json:"from"     validate:"required,email"`
	Comments string `json:"comments" validate:"required"`
}
