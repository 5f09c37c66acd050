package entity

import "time"

// Profile perfil de usuario, creado de forma perezosa en el primer login
// (upsert-if-missing, clave única por UserID).
type Profile struct {
	ID        string
	UserID    string
	FullName  string
	CreatedAt time.Time
}
