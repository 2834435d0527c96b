package handler

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/misasha/hotel-reservation/internal/config"
	"github.com/misasha/hotel-reservation/internal/model"
	"github.com/misasha/hotel-reservation/internal/protocol"
	"github.com/misasha/hotel-reservation/internal/repository"
	"github.com/misasha/hotel-reservation/internal/session"
	"github.com/misasha/hotel-reservation/internal/utils"
)

type fixture struct {
	deps     *Deps
	auth     *AuthHandler
	users    *UserHandler
	rooms    *RoomHandler
	bookings *BookingHandler
}

// newFixture builds a fresh state: admin "boss" (password "admin"), user
// "alice" (password "pass", balance 100), room 101 with two beds at 10 per
// bed per day, server date 2024-01-01.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	usersFile := filepath.Join(dir, "usersinfo.json")
	roomsFile := filepath.Join(dir, "roomsinfo.json")
	require.NoError(t, os.WriteFile(usersFile, []byte(`[
		{"id":0,"user":"boss","password":"x","admin":true,"balance":0,"phone":"0910","address":"hotel"},
		{"id":1,"user":"alice","password":"x","admin":false,"balance":100,"phone":"0911","address":"home"}
	]`), 0o644))
	require.NoError(t, os.WriteFile(roomsFile, []byte(`[
		{"number":"101","price":10,"maxCapacity":2,"capacity":2,"isFull":false,"users":[]}
	]`), 0o644))

	store, err := repository.Open(usersFile, roomsFile, zap.NewNop())
	require.NoError(t, err)
	store.Calendar = repository.NewCalendar(mustDate(t, "2024-01-01"))

	adminDigest, err := utils.HashPassword("admin", 4)
	require.NoError(t, err)
	aliceDigest, err := utils.HashPassword("pass", 4)
	require.NoError(t, err)
	boss, _ := store.Users.FindByUsername("boss")
	boss.Password = adminDigest
	alice, _ := store.Users.FindByUsername("alice")
	alice.Password = aliceDigest

	deps := &Deps{
		Cfg: config.Config{
			JWTSecret:     "test-secret",
			TokenLifetime: 30 * time.Minute,
			BcryptCost:    4,
		},
		Store:    store,
		Sessions: session.NewStore("test-secret", 30*time.Minute, zap.NewNop()),
	}
	return &fixture{
		deps:     deps,
		auth:     NewAuthHandler(deps),
		users:    NewUserHandler(deps),
		rooms:    NewRoomHandler(deps),
		bookings: NewBookingHandler(deps),
	}
}

func mustDate(t *testing.T, s string) model.Date {
	t.Helper()
	d, err := model.ParseDate(s)
	require.NoError(t, err)
	return d
}

func b64(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}

func request(command string, token string, args map[string]any) *protocol.Request {
	req := &protocol.Request{Command: command, Arguments: args}
	if token != "" {
		req.Token = &token
	}
	return req
}

// signin authenticates through the handler and returns the issued token.
func (f *fixture) signin(t *testing.T, username, password string) string {
	t.Helper()
	resp := f.auth.Signin(request("signin", "", map[string]any{
		"username": username,
		"password": b64(password),
	}))
	require.Equal(t, protocol.StatusSignedIn, resp.Status)
	payload, ok := resp.Payload.(map[string]string)
	require.True(t, ok)
	require.NotEmpty(t, payload["token"])
	return payload["token"]
}

func TestSignin(t *testing.T) {
	f := newFixture(t)

	resp := f.auth.Signin(request("signin", "", map[string]any{
		"username": "nobody",
		"password": b64("pass"),
	}))
	assert.Equal(t, protocol.StatusWrongUserPassword, resp.Status)
	assert.Equal(t, "Username doesn't exist", resp.Message)

	resp = f.auth.Signin(request("signin", "", map[string]any{
		"username": "alice",
		"password": b64("wrong"),
	}))
	assert.Equal(t, protocol.StatusWrongUserPassword, resp.Status)
	assert.Equal(t, "Wrong password", resp.Message)

	resp = f.auth.Signin(request("signin", "", map[string]any{"username": "alice"}))
	assert.Equal(t, protocol.StatusBadRequest, resp.Status)

	token := f.signin(t, "alice", "pass")
	resp = f.users.UserInfo(request("userInfo", token, nil))
	assert.Equal(t, protocol.StatusSignedIn, resp.Status)
	assert.Equal(t, "1", resp.User)
}

func TestSecondSigninInvalidatesFirstSession(t *testing.T) {
	f := newFixture(t)

	first := f.signin(t, "alice", "pass")
	second := f.signin(t, "alice", "pass")

	resp := f.users.UserInfo(request("userInfo", first, nil))
	assert.Equal(t, protocol.StatusUnauthorized, resp.Status)
	resp = f.users.UserInfo(request("userInfo", second, nil))
	assert.Equal(t, protocol.StatusSignedIn, resp.Status)
}

func TestSignup(t *testing.T) {
	f := newFixture(t)

	resp := f.auth.Signup(request("signup", "", map[string]any{
		"username": "bob",
		"password": b64("secret"),
		"balance":  50,
		"phone":    "0912",
		"address":  "town",
	}))
	require.Equal(t, protocol.StatusSignedUp, resp.Status)

	f.signin(t, "bob", "secret")

	// Duplicate username.
	resp = f.auth.Signup(request("signup", "", map[string]any{
		"username": "bob",
		"password": b64("other"),
		"balance":  1,
		"phone":    "0",
		"address":  "x",
	}))
	assert.Equal(t, protocol.StatusUsernameExists, resp.Status)

	// Fractional balance.
	resp = f.auth.Signup(request("signup", "", map[string]any{
		"username": "carol",
		"password": b64("p"),
		"balance":  1.5,
		"phone":    "0",
		"address":  "x",
	}))
	assert.Equal(t, protocol.StatusBadCommand, resp.Status)
	assert.Equal(t, "Invalid balance", resp.Message)

	resp = f.auth.Signup(request("signup", "", map[string]any{"username": "dave"}))
	assert.Equal(t, protocol.StatusBadRequest, resp.Status)
}

func TestCheckUsername(t *testing.T) {
	f := newFixture(t)

	resp := f.auth.CheckUsername(request("checkUsername", "", map[string]any{"username": "alice"}))
	assert.Equal(t, protocol.StatusUsernameExists, resp.Status)

	resp = f.auth.CheckUsername(request("checkUsername", "", map[string]any{"username": "ghost"}))
	assert.Equal(t, protocol.StatusUsernameDoesNotExist, resp.Status)
	assert.Equal(t, map[string]bool{"checkUsername": true}, resp.Payload)
}

func TestAuthenticationRejections(t *testing.T) {
	f := newFixture(t)

	resp := f.users.UserInfo(request("userInfo", "", nil))
	assert.Equal(t, protocol.StatusBadRequest, resp.Status)
	assert.Equal(t, "Token not provided", resp.Message)

	resp = f.users.UserInfo(request("userInfo", "bogus-token", nil))
	assert.Equal(t, protocol.StatusUnauthorized, resp.Status)
	assert.Equal(t, "Invalid token", resp.Message)
}

func TestLogout(t *testing.T) {
	f := newFixture(t)
	token := f.signin(t, "alice", "pass")

	resp := f.auth.Logout(request("logout", token, nil))
	assert.Equal(t, protocol.StatusLoggedOut, resp.Status)

	resp = f.users.UserInfo(request("userInfo", token, nil))
	assert.Equal(t, protocol.StatusUnauthorized, resp.Status)
}

func TestAllUsersRequiresAdmin(t *testing.T) {
	f := newFixture(t)

	alice := f.signin(t, "alice", "pass")
	resp := f.users.AllUsers(request("allUsers", alice, nil))
	assert.Equal(t, protocol.StatusAccessDenied, resp.Status)

	boss := f.signin(t, "boss", "admin")
	resp = f.users.AllUsers(request("allUsers", boss, nil))
	require.Equal(t, protocol.StatusSignedIn, resp.Status)
	infos, ok := resp.Payload.([]model.UserInfo)
	require.True(t, ok)
	assert.Len(t, infos, 2)
}

func TestEditInfo(t *testing.T) {
	f := newFixture(t)
	token := f.signin(t, "alice", "pass")

	resp := f.users.EditInfo(request("editInfo", token, map[string]any{
		"password": b64("newpass"),
		"phone":    "0999",
		"address":  "elsewhere",
	}))
	require.Equal(t, protocol.StatusUserInfoChanged, resp.Status)

	f.signin(t, "alice", "newpass")
	alice, _ := f.deps.Store.Users.FindByUsername("alice")
	assert.Equal(t, "0999", alice.Phone)
	assert.Equal(t, "elsewhere", alice.Address)

	resp = f.users.EditInfo(request("editInfo", token, map[string]any{"phone": "1"}))
	assert.Equal(t, protocol.StatusBadRequest, resp.Status)
}

func TestRoomManagement(t *testing.T) {
	f := newFixture(t)
	boss := f.signin(t, "boss", "admin")
	alice := f.signin(t, "alice", "pass")

	// Non-admins are rejected before argument validation.
	resp := f.rooms.AddRoom(request("addRoom", alice, nil))
	assert.Equal(t, protocol.StatusAccessDenied, resp.Status)

	resp = f.rooms.AddRoom(request("addRoom", boss, map[string]any{
		"roomNum": "102", "maxCapacity": 3, "price": 20,
	}))
	assert.Equal(t, protocol.StatusRoomAdded, resp.Status)

	resp = f.rooms.AddRoom(request("addRoom", boss, map[string]any{
		"roomNum": "102", "maxCapacity": 1, "price": 5,
	}))
	assert.Equal(t, protocol.StatusRoomExists, resp.Status)

	resp = f.rooms.AddRoom(request("addRoom", boss, map[string]any{
		"roomNum": "103", "maxCapacity": 0, "price": 5,
	}))
	assert.Equal(t, protocol.StatusInvalidCapacity, resp.Status)

	resp = f.rooms.ModifyRoom(request("modifyRoom", boss, map[string]any{
		"roomNum": "102", "newMaxCapacity": 2, "newPrice": 25,
	}))
	assert.Equal(t, protocol.StatusRoomModified, resp.Status)

	resp = f.rooms.ModifyRoom(request("modifyRoom", boss, map[string]any{
		"roomNum": "999", "newMaxCapacity": 2, "newPrice": 25,
	}))
	assert.Equal(t, protocol.StatusRoomNotFound, resp.Status)

	resp = f.rooms.RemoveRoom(request("removeRoom", boss, map[string]any{"roomNum": "102"}))
	assert.Equal(t, protocol.StatusRoomDeleted, resp.Status)

	resp = f.rooms.RemoveRoom(request("removeRoom", boss, map[string]any{"roomNum": "102"}))
	assert.Equal(t, protocol.StatusRoomNotFound, resp.Status)
}

func TestRoomsInfoAdminSeesReservations(t *testing.T) {
	f := newFixture(t)
	boss := f.signin(t, "boss", "admin")
	alice := f.signin(t, "alice", "pass")

	resp := f.bookings.Book(request("book", alice, map[string]any{
		"roomNum": "101", "numOfBeds": 1,
		"checkInDate": "2024-01-01", "checkOutDate": "2024-01-03",
	}))
	require.Equal(t, protocol.StatusOK, resp.Status)

	resp = f.rooms.RoomsInfo(request("roomsInfo", alice, nil))
	require.Equal(t, protocol.StatusSignedIn, resp.Status)
	views, ok := resp.Payload.([]repository.RoomView)
	require.True(t, ok)
	require.Len(t, views, 1)
	assert.Empty(t, views[0].Reservations)

	resp = f.rooms.RoomsInfo(request("roomsInfo", boss, nil))
	views = resp.Payload.([]repository.RoomView)
	require.Len(t, views, 1)
	assert.Len(t, views[0].Reservations, 1)
}

// TestBookingScenario walks the full flow: a booking that fills the room and
// debits the balance, a second booking rejected while the room is full, a
// day pass that checks the stay out, and the second booking then succeeding.
func TestBookingScenario(t *testing.T) {
	f := newFixture(t)
	boss := f.signin(t, "boss", "admin")
	alice := f.signin(t, "alice", "pass")

	resp := f.auth.Signup(request("signup", "", map[string]any{
		"username": "bob", "password": b64("p"), "balance": 200,
		"phone": "0912", "address": "town",
	}))
	require.Equal(t, protocol.StatusSignedUp, resp.Status)
	bob := f.signin(t, "bob", "p")

	resp = f.bookings.Book(request("book", alice, map[string]any{
		"roomNum": "101", "numOfBeds": 2,
		"checkInDate": "2024-01-01", "checkOutDate": "2024-01-05",
	}))
	require.Equal(t, protocol.StatusOK, resp.Status)

	aliceUser, _ := f.deps.Store.Users.FindByUsername("alice")
	assert.Equal(t, 80, aliceUser.Balance)

	resp = f.bookings.Book(request("book", bob, map[string]any{
		"roomNum": "101", "numOfBeds": 1,
		"checkInDate": "2024-01-02", "checkOutDate": "2024-01-04",
	}))
	assert.Equal(t, protocol.StatusRoomCapacityFull, resp.Status)

	resp = f.bookings.PassDay(request("passDay", boss, map[string]any{"numOfDays": 4}))
	require.Equal(t, protocol.StatusOK, resp.Status)
	assert.Equal(t, "2024-01-05", f.deps.Store.Calendar.Today().String())

	// Alice's stay expired at checkout; the room is free again.
	resp = f.bookings.Book(request("book", bob, map[string]any{
		"roomNum": "101", "numOfBeds": 1,
		"checkInDate": "2024-01-05", "checkOutDate": "2024-01-07",
	}))
	assert.Equal(t, protocol.StatusOK, resp.Status)
}

func TestBookValidation(t *testing.T) {
	f := newFixture(t)
	alice := f.signin(t, "alice", "pass")

	resp := f.bookings.Book(request("book", alice, map[string]any{"roomNum": "101"}))
	assert.Equal(t, protocol.StatusBadRequest, resp.Status)

	resp = f.bookings.Book(request("book", alice, map[string]any{
		"roomNum": "101", "numOfBeds": 0,
		"checkInDate": "2024-01-01", "checkOutDate": "2024-01-05",
	}))
	assert.Equal(t, protocol.StatusBadRequest, resp.Status)
	assert.Equal(t, "Invalid number of beds", resp.Message)

	resp = f.bookings.Book(request("book", alice, map[string]any{
		"roomNum": "101", "numOfBeds": 1,
		"checkInDate": "January 1st", "checkOutDate": "2024-01-05",
	}))
	assert.Equal(t, protocol.StatusBadCommand, resp.Status)
	assert.Equal(t, "Invalid date", resp.Message)

	resp = f.bookings.Book(request("book", alice, map[string]any{
		"roomNum": "101", "numOfBeds": 1,
		"checkInDate": "2024-01-05", "checkOutDate": "2024-01-05",
	}))
	assert.Equal(t, protocol.StatusBadCommand, resp.Status)
	assert.Equal(t, "Invalid date range", resp.Message)

	resp = f.bookings.Book(request("book", alice, map[string]any{
		"roomNum": "999", "numOfBeds": 1,
		"checkInDate": "2024-01-01", "checkOutDate": "2024-01-05",
	}))
	assert.Equal(t, protocol.StatusRoomNotFound, resp.Status)

	// 100 balance cannot cover one bed at 200.
	boss := f.signin(t, "boss", "admin")
	added := f.rooms.AddRoom(request("addRoom", boss, map[string]any{
		"roomNum": "201", "maxCapacity": 1, "price": 200,
	}))
	require.Equal(t, protocol.StatusRoomAdded, added.Status)

	resp = f.bookings.Book(request("book", alice, map[string]any{
		"roomNum": "201", "numOfBeds": 1,
		"checkInDate": "2024-01-01", "checkOutDate": "2024-01-07",
	}))
	assert.Equal(t, protocol.StatusBalanceNotEnough, resp.Status)
}

func TestCancelRefundsHalf(t *testing.T) {
	f := newFixture(t)
	alice := f.signin(t, "alice", "pass")

	resp := f.bookings.Book(request("book", alice, map[string]any{
		"roomNum": "101", "numOfBeds": 2,
		"checkInDate": "2024-02-01", "checkOutDate": "2024-02-05",
	}))
	require.Equal(t, protocol.StatusOK, resp.Status)

	aliceUser, _ := f.deps.Store.Users.FindByUsername("alice")
	require.Equal(t, 80, aliceUser.Balance)

	resp = f.bookings.Cancel(request("cancel", alice, map[string]any{
		"roomNum": "101", "numOfBeds": 2,
	}))
	require.Equal(t, protocol.StatusCancelOK, resp.Status)

	// Half of 2 beds at 10: refund 10.
	assert.Equal(t, 90, aliceUser.Balance)

	resp = f.bookings.Cancel(request("cancel", alice, map[string]any{
		"roomNum": "101", "numOfBeds": 2,
	}))
	assert.Equal(t, protocol.StatusReservationNotFound, resp.Status)
}

func TestCancelStartedStay(t *testing.T) {
	f := newFixture(t)
	alice := f.signin(t, "alice", "pass")

	resp := f.bookings.Book(request("book", alice, map[string]any{
		"roomNum": "101", "numOfBeds": 1,
		"checkInDate": "2024-01-01", "checkOutDate": "2024-01-05",
	}))
	require.Equal(t, protocol.StatusOK, resp.Status)

	// Server date equals check-in: the stay has begun.
	resp = f.bookings.Cancel(request("cancel", alice, map[string]any{
		"roomNum": "101", "numOfBeds": 1,
	}))
	assert.Equal(t, protocol.StatusReservationNotFound, resp.Status)
	assert.Equal(t, "Reservation already started", resp.Message)
}

func TestPassDay(t *testing.T) {
	f := newFixture(t)
	boss := f.signin(t, "boss", "admin")
	alice := f.signin(t, "alice", "pass")

	// Argument validation precedes the access check.
	resp := f.bookings.PassDay(request("passDay", alice, nil))
	assert.Equal(t, protocol.StatusBadRequest, resp.Status)

	resp = f.bookings.PassDay(request("passDay", alice, map[string]any{"numOfDays": 1}))
	assert.Equal(t, protocol.StatusAccessDenied, resp.Status)

	resp = f.bookings.PassDay(request("passDay", boss, map[string]any{"numOfDays": 0}))
	assert.Equal(t, protocol.StatusInvalidValue, resp.Status)

	resp = f.bookings.PassDay(request("passDay", boss, map[string]any{"numOfDays": 2}))
	assert.Equal(t, protocol.StatusOK, resp.Status)
	assert.Equal(t, "2024-01-03", f.deps.Store.Calendar.Today().String())
}

func TestLeaveRoom(t *testing.T) {
	f := newFixture(t)
	alice := f.signin(t, "alice", "pass")

	resp := f.bookings.LeaveRoom(request("leaveRoom", alice, map[string]any{"roomNum": "999"}))
	assert.Equal(t, protocol.StatusBadCommand, resp.Status)
	assert.Equal(t, "Room not found", resp.Message)

	resp = f.bookings.LeaveRoom(request("leaveRoom", alice, map[string]any{"roomNum": "101"}))
	assert.Equal(t, protocol.StatusReservationNotFound, resp.Status)

	booked := f.bookings.Book(request("book", alice, map[string]any{
		"roomNum": "101", "numOfBeds": 1,
		"checkInDate": "2024-01-01", "checkOutDate": "2024-01-05",
	}))
	require.Equal(t, protocol.StatusOK, booked.Status)

	resp = f.bookings.LeaveRoom(request("leaveRoom", alice, map[string]any{"roomNum": "101"}))
	assert.Equal(t, protocol.StatusUserLeftRoom, resp.Status)

	// No refund for leaving early.
	aliceUser, _ := f.deps.Store.Users.FindByUsername("alice")
	assert.Equal(t, 90, aliceUser.Balance)
}
