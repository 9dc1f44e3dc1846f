package models

import (
	"time"

	"github.com/google/uuid"
)

func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

func nowUTC() time.Time {
	return time.Now().UTC()
}
