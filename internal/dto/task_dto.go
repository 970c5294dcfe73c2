package dto

import "github.com/google/uuid"

type CreateTaskRequest struct {
	Name        string     `json:"name"`
	Difficulty  string     `json:"difficulty"`
	Monster     string     `json:"monster"`
	TimeBlockID *uuid.UUID `json:"time_block_id"`
}

type UpdateTaskRequest struct {
	Name       *string `json:"name"`
	Difficulty *string `json:"difficulty"`
	Monster    *string `json:"monster"`
	Completed  *bool   `json:"completed"`
}
