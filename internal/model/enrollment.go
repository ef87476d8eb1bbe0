package model

import "time"

// Enrollment is a user's registration for the event.  Each user has at
// most one enrollment and it is required before a ticket can be issued.
// This struct corresponds to a row in the `enrollments` table.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the enrollment (unique).
//  Name      – attendee name as registered.
//  CPF       – national document number.
//  Birthday  – attendee birth date.
//  Phone     – contact phone.
//  CreatedAt – timestamp of creation.
//  UpdatedAt – timestamp of last update.
type Enrollment struct {
	ID        uint64    // enrollments.id
	UserID    uint64    // enrollments.user_id
	Name      string    // enrollments.name
	CPF       string    // enrollments.cpf
	Birthday  time.Time // enrollments.birthday
	Phone     string    // enrollments.phone
	CreatedAt time.Time // enrollments.created_at
	UpdatedAt time.Time // enrollments.updated_at
}
