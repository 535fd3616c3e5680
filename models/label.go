package models

type Label struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type CreateLabel struct {
	Name string `json:"name" validate:"required,notblank,max=100"`
}
