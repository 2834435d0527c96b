package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/misasha/hotel-reservation/internal/client"
	"github.com/misasha/hotel-reservation/internal/protocol"
)

func main() {
	host := pflag.String("host", "127.0.0.1", "server host")
	port := pflag.String("port", "8000", "server port")
	pflag.Parse()

	c, err := client.Dial(*host + ":" + *port)
	if err != nil {
		fmt.Fprintln(os.Stderr, "connect failed:", err)
		os.Exit(1)
	}
	defer c.Close()

	fmt.Println("Connected. Type 'help' for commands, 'quit' to exit.")
	in := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !in.Scan() {
			return
		}
		fields := strings.Fields(in.Text())
		if len(fields) == 0 {
			continue
		}
		cmd, args := fields[0], fields[1:]
		if cmd == "quit" || cmd == "exit" {
			return
		}
		if err := run(c, cmd, args); err != nil {
			fmt.Println("error:", err)
		}
	}
}

func run(c *client.Client, cmd string, args []string) error {
	switch cmd {
	case "help":
		usage()
		return nil
	case "signin":
		if len(args) != 1 {
			return fmt.Errorf("usage: signin <username>")
		}
		password, err := readPassword("password: ")
		if err != nil {
			return err
		}
		return show(c.Signin(args[0], password))
	case "signup":
		if len(args) != 4 {
			return fmt.Errorf("usage: signup <username> <balance> <phone> <address>")
		}
		balance, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid balance %q", args[1])
		}
		password, err := readPassword("password: ")
		if err != nil {
			return err
		}
		return show(c.Signup(args[0], password, balance, args[2], args[3]))
	case "checkUsername":
		if len(args) != 1 {
			return fmt.Errorf("usage: checkUsername <username>")
		}
		free, err := c.CheckUsername(args[0])
		if err != nil {
			return err
		}
		if free {
			fmt.Println("username is available")
		} else {
			fmt.Println("username is taken")
		}
		return nil
	case "userInfo":
		return show(c.UserInfo())
	case "allUsers":
		return show(c.AllUsers())
	case "roomsInfo":
		onlyAvailable := len(args) == 1 && args[0] == "available"
		return show(c.RoomsInfo(onlyAvailable))
	case "book":
		if len(args) != 4 {
			return fmt.Errorf("usage: book <roomNum> <numOfBeds> <checkIn> <checkOut>")
		}
		beds, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid number of beds %q", args[1])
		}
		return show(c.Book(args[0], beds, args[2], args[3]))
	case "cancel":
		if len(args) != 2 {
			return fmt.Errorf("usage: cancel <roomNum> <numOfBeds>")
		}
		beds, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid number of beds %q", args[1])
		}
		return show(c.Cancel(args[0], beds))
	case "passDay":
		if len(args) != 1 {
			return fmt.Errorf("usage: passDay <numOfDays>")
		}
		days, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid number of days %q", args[0])
		}
		return show(c.PassDay(days))
	case "editInfo":
		if len(args) != 2 {
			return fmt.Errorf("usage: editInfo <phone> <address>")
		}
		password, err := readPassword("new password: ")
		if err != nil {
			return err
		}
		return show(c.EditInfo(password, args[0], args[1]))
	case "leaveRoom":
		if len(args) != 1 {
			return fmt.Errorf("usage: leaveRoom <roomNum>")
		}
		return show(c.LeaveRoom(args[0]))
	case "addRoom":
		if len(args) != 3 {
			return fmt.Errorf("usage: addRoom <roomNum> <maxCapacity> <price>")
		}
		capacity, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid capacity %q", args[1])
		}
		price, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("invalid price %q", args[2])
		}
		return show(c.AddRoom(args[0], capacity, price))
	case "modifyRoom":
		if len(args) != 3 {
			return fmt.Errorf("usage: modifyRoom <roomNum> <newMaxCapacity> <newPrice>")
		}
		capacity, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid capacity %q", args[1])
		}
		price, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("invalid price %q", args[2])
		}
		return show(c.ModifyRoom(args[0], capacity, price))
	case "removeRoom":
		if len(args) != 1 {
			return fmt.Errorf("usage: removeRoom <roomNum>")
		}
		return show(c.RemoveRoom(args[0]))
	case "logout":
		return show(c.Logout())
	default:
		return fmt.Errorf("unknown command %q, type 'help'", cmd)
	}
}

// show prints the status line and, when present, the pretty-printed payload.
func show(resp protocol.Response, err error) error {
	if err != nil {
		return err
	}
	fmt.Printf("[%d] %s (server date %s)\n", resp.Status, resp.Message, resp.Timestamp)
	if resp.Payload != nil {
		pretty, mErr := json.MarshalIndent(resp.Payload, "", "  ")
		if mErr == nil {
			fmt.Println(string(pretty))
		}
	}
	return nil
}

// readPassword reads without echo on a terminal and falls back to a plain
// line read when stdin is piped.
func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		raw, err := term.ReadPassword(fd)
		fmt.Println()
		if err != nil {
			return "", err
		}
		return string(raw), nil
	}
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func usage() {
	fmt.Println(`commands:
  signin <username>
  signup <username> <balance> <phone> <address>
  checkUsername <username>
  userInfo
  allUsers
  roomsInfo [available]
  book <roomNum> <numOfBeds> <checkIn> <checkOut>
  cancel <roomNum> <numOfBeds>
  passDay <numOfDays>
  editInfo <phone> <address>
  leaveRoom <roomNum>
  addRoom <roomNum> <maxCapacity> <price>
  modifyRoom <roomNum> <newMaxCapacity> <newPrice>
  removeRoom <roomNum>
  logout
  quit`)
}
