package domain

import "time"

// LessonDraft is the in-memory, unpersisted lesson being edited. Scalar
// fields arrive as strings straight from the form; Price and the discount
// amounts are parsed into integers at submission time.
type LessonDraft struct {
	Title       string          `json:"title"`
	Instructor1 string          `json:"instructor1"`
	Instructor2 string          `json:"instructor2"`
	Start       string          `json:"start_datetime"`
	End         string          `json:"end_datetime"`
	Region      string          `json:"region"`
	Place       string          `json:"place"`
	Price       string          `json:"price"`
	Account     string          `json:"account"`
	Discounts   []DiscountDraft `json:"discounts"`
	Contacts    []ContactDraft  `json:"contacts"`
}

type DiscountDraft struct {
	Type      string `json:"type"`
	Condition string `json:"condition"`
	Amount    string `json:"amount"`
}

type ContactDraft struct {
	Type    string `json:"type"`
	Contact string `json:"contact"`
	Name    string `json:"name"`
}

// Lesson is the persisted parent record. No is assigned by the server and is
// the only key child records may reference.
type Lesson struct {
	No          int64     `json:"no"`
	Title       string    `json:"title"`
	Instructor1 string    `json:"instructor1"`
	Instructor2 string    `json:"instructor2"`
	Start       string    `json:"start_datetime"`
	End         string    `json:"end_datetime"`
	Region      string    `json:"region"`
	Place       string    `json:"place"`
	Price       int       `json:"price"`
	Account     string    `json:"account"`
	CreatedBy   int64     `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

// Discount is a persisted child row of a Lesson, keyed by the parent's No.
type Discount struct {
	No        int64  `json:"no"`
	Type      string `json:"type"`
	Condition string `json:"condition"`
	Amount    int    `json:"amount"`
	CreatedBy int64  `json:"created_by"`
}

// Contact is a persisted child row of a Lesson, keyed by the parent's No.
type Contact struct {
	No        int64  `json:"no"`
	Type      string `json:"type"`
	Contact   string `json:"contact"`
	Name      string `json:"name"`
	CreatedBy int64  `json:"created_by"`
}
