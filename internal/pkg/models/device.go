package models

//Device is an authenticated device and the username that owns it
type Device struct {
	Name     string `json:"device"`
	Username string `json:"username"`
}
