// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data — similar to classes in other languages,
// but without inheritance. Go favours composition over inheritance.
package model

// User is a credential record in the shared users.json store.
//
// The username is the unique key — registration appends a record, nothing
// ever deletes one, and the username itself is never changed afterwards.
//
// WHY PLAINTEXT PASSWORD?
// The password is stored and compared as plaintext. This is a known,
// deliberately-kept weakness: the data files are meant to be human-readable
// and hand-editable, and there is no hashing anywhere in the credential path.
// Anything intended for real-world use must add salted hashing, which would
// change the stored format — out of scope for this service.
//
// WHY ProfileFile string (not *string)?
// The document reference is unset until the user first saves a profile (or
// posts todos/events). We use the empty string as the zero value rather than
// a nullable pointer — simpler to work with, and clients treat "" and null
// identically ("no profile yet").
type User struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	ProfileFile string `json:"profileFile"` // document reference, "" until first save
}
