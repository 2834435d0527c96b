package router

import (
	"github.com/misasha/hotel-reservation/internal/handler"
)

// Register wires every protocol command to its handler.
func Register(d *Dispatcher, deps *handler.Deps) {
	auth := handler.NewAuthHandler(deps)
	users := handler.NewUserHandler(deps)
	rooms := handler.NewRoomHandler(deps)
	bookings := handler.NewBookingHandler(deps)

	d.Handle("signin", auth.Signin)
	d.Handle("signup", auth.Signup)
	d.Handle("checkUsername", auth.CheckUsername)
	d.Handle("logout", auth.Logout)

	d.Handle("userInfo", users.UserInfo)
	d.Handle("allUsers", users.AllUsers)
	d.Handle("editInfo", users.EditInfo)

	d.Handle("roomsInfo", rooms.RoomsInfo)
	d.Handle("addRoom", rooms.AddRoom)
	d.Handle("modifyRoom", rooms.ModifyRoom)
	d.Handle("removeRoom", rooms.RemoveRoom)

	d.Handle("book", bookings.Book)
	d.Handle("cancel", bookings.Cancel)
	d.Handle("passDay", bookings.PassDay)
	d.Handle("leaveRoom", bookings.LeaveRoom)
}
