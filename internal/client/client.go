// Package client is a synchronous library client for the reservation
// protocol: one request on the wire, one response back. It tracks the
// session token across calls and drops it when the server reports the
// session invalid.
package client

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/misasha/hotel-reservation/internal/protocol"
	"github.com/misasha/hotel-reservation/internal/server"
)

// Client drives one connection to the server.
type Client struct {
	ep    *server.Endpoint
	token string
}

// Dial connects to the server.
func Dial(addr string) (*Client, error) {
	ep, err := server.Dial(addr)
	if err != nil {
		return nil, err
	}
	return &Client{ep: ep}, nil
}

// Close tears down the connection.
func (c *Client) Close() error {
	return c.ep.Close()
}

// SignedIn reports whether the client holds a session token.
func (c *Client) SignedIn() bool {
	return c.token != ""
}

// Call sends one command and decodes the response. A 1401 from the server
// means the session died (idle expiry or a second signin elsewhere); the
// stored token is dropped so the caller can sign in again.
func (c *Client) Call(command string, args map[string]any) (protocol.Response, error) {
	req := protocol.Request{Command: command, Arguments: args}
	if c.token != "" {
		req.Token = &c.token
	}
	if err := c.ep.Send(req); err != nil {
		return protocol.Response{}, err
	}
	raw, err := c.ep.Receive()
	if err != nil {
		return protocol.Response{}, err
	}
	var resp protocol.Response
	if err := json.Unmarshal(raw, &resp); err != nil {
		return protocol.Response{}, fmt.Errorf("malformed response: %w", err)
	}
	if resp.Status == protocol.StatusUnauthorized {
		c.token = ""
	}
	return resp, nil
}

// Signin authenticates and stores the returned session token.
func (c *Client) Signin(username, password string) (protocol.Response, error) {
	resp, err := c.Call("signin", map[string]any{
		"username": username,
		"password": encodePassword(password),
	})
	if err != nil {
		return resp, err
	}
	if resp.Status == protocol.StatusSignedIn {
		var payload struct {
			Token string `json:"token"`
		}
		if raw, mErr := json.Marshal(resp.Payload); mErr == nil {
			_ = json.Unmarshal(raw, &payload)
		}
		c.token = payload.Token
	}
	return resp, nil
}

// Signup registers a new account.
func (c *Client) Signup(username, password string, balance int, phone, address string) (protocol.Response, error) {
	return c.Call("signup", map[string]any{
		"username": username,
		"password": encodePassword(password),
		"balance":  balance,
		"phone":    phone,
		"address":  address,
	})
}

// CheckUsername reports whether the username is still free.
func (c *Client) CheckUsername(username string) (bool, error) {
	resp, err := c.Call("checkUsername", map[string]any{"username": username})
	if err != nil {
		return false, err
	}
	return resp.Status == protocol.StatusUsernameDoesNotExist, nil
}

// UserInfo fetches the caller's own account.
func (c *Client) UserInfo() (protocol.Response, error) {
	return c.Call("userInfo", nil)
}

// AllUsers lists every account (administrators only).
func (c *Client) AllUsers() (protocol.Response, error) {
	return c.Call("allUsers", nil)
}

// RoomsInfo lists rooms, optionally only those with a free bed today.
func (c *Client) RoomsInfo(onlyAvailable bool) (protocol.Response, error) {
	return c.Call("roomsInfo", map[string]any{"onlyAvailable": onlyAvailable})
}

// Book reserves beds in a room over [checkIn, checkOut).
func (c *Client) Book(roomNum string, numOfBeds int, checkIn, checkOut string) (protocol.Response, error) {
	return c.Call("book", map[string]any{
		"roomNum":      roomNum,
		"numOfBeds":    numOfBeds,
		"checkInDate":  checkIn,
		"checkOutDate": checkOut,
	})
}

// Cancel releases beds from a not-yet-started reservation.
func (c *Client) Cancel(roomNum string, numOfBeds int) (protocol.Response, error) {
	return c.Call("cancel", map[string]any{
		"roomNum":   roomNum,
		"numOfBeds": numOfBeds,
	})
}

// PassDay advances the server date (administrators only).
func (c *Client) PassDay(numOfDays int) (protocol.Response, error) {
	return c.Call("passDay", map[string]any{"numOfDays": numOfDays})
}

// EditInfo replaces the caller's password, phone and address.
func (c *Client) EditInfo(password, phone, address string) (protocol.Response, error) {
	return c.Call("editInfo", map[string]any{
		"password": encodePassword(password),
		"phone":    phone,
		"address":  address,
	})
}

// LeaveRoom checks the caller out of a room they currently occupy.
func (c *Client) LeaveRoom(roomNum string) (protocol.Response, error) {
	return c.Call("leaveRoom", map[string]any{"roomNum": roomNum})
}

// AddRoom creates a room (administrators only).
func (c *Client) AddRoom(roomNum string, maxCapacity, price int) (protocol.Response, error) {
	return c.Call("addRoom", map[string]any{
		"roomNum":     roomNum,
		"maxCapacity": maxCapacity,
		"price":       price,
	})
}

// ModifyRoom changes a room's price and capacity (administrators only).
func (c *Client) ModifyRoom(roomNum string, newMaxCapacity, newPrice int) (protocol.Response, error) {
	return c.Call("modifyRoom", map[string]any{
		"roomNum":        roomNum,
		"newMaxCapacity": newMaxCapacity,
		"newPrice":       newPrice,
	})
}

// RemoveRoom deletes an empty room (administrators only).
func (c *Client) RemoveRoom(roomNum string) (protocol.Response, error) {
	return c.Call("removeRoom", map[string]any{"roomNum": roomNum})
}

// Logout revokes the session and forgets the token.
func (c *Client) Logout() (protocol.Response, error) {
	resp, err := c.Call("logout", nil)
	if err == nil {
		c.token = ""
	}
	return resp, err
}

func encodePassword(plain string) string {
	return base64.StdEncoding.EncodeToString([]byte(plain))
}
