package domain

import "github.com/google/uuid"

const DateLayout = "2006-01-02"

type Review struct {
	ID        uuid.UUID
	ProductID ProductID
	Name      string
	Rating    int
	Comment   string
	Date      string
}
