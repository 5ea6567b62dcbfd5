package domain

import "github.com/google/uuid"

type UserID = uuid.UUID
type TodoID = uuid.UUID
type PasscodeID = uuid.UUID
type SessionID = uuid.UUID
