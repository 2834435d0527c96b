package model

// User is a hotel account. The json tags match the persisted users file:
// ids are stable array indices assigned at creation and never reused, the
// password field holds a bcrypt digest, and balance is in whole currency
// units (meaningful for regular users only).
type User struct {
	ID       int    `json:"id"`
	Username string `json:"user"`
	Password string `json:"password"`
	Admin    bool   `json:"admin"`
	Balance  int    `json:"balance"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

// UserInfo is the client-visible projection of a user, without the
// password digest.
type UserInfo struct {
	ID       int    `json:"id"`
	Username string `json:"user"`
	Admin    bool   `json:"admin"`
	Balance  int    `json:"balance"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

// Info strips the password digest for responses.
func (u *User) Info() UserInfo {
	return UserInfo{
		ID:       u.ID,
		Username: u.Username,
		Admin:    u.Admin,
		Balance:  u.Balance,
		Phone:    u.Phone,
		Address:  u.Address,
	}
}

// EditInfo replaces the mutable profile fields. The digest must already be
// hashed by the caller.
func (u *User) EditInfo(passwordDigest, phone, address string) {
	u.Password = passwordDigest
	u.Phone = phone
	u.Address = address
}

// IncreaseBalance credits the account.
func (u *User) IncreaseBalance(amount int) {
	u.Balance += amount
}

// DecreaseBalance debits the account. Callers check sufficiency first; the
// balance is never driven negative by a booking.
func (u *User) DecreaseBalance(amount int) {
	u.Balance -= amount
}
