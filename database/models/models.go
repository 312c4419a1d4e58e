package models

import "time"

type Course struct {
	Id        string    `json:"id"`
	Name      string    `json:"name"`
	Year      int       `json:"year"`
	CreatedAt time.Time `json:"createdAt"`
}

type Student struct {
	Id   string `json:"id"`
	Name string `json:"name"`
}
