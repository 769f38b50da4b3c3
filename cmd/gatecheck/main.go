// gatecheck runs the client auth gate against a live deployment, the way the
// mini app would on startup. Useful as a smoke check after a deploy:
//
//	gatecheck -base-url https://courses.example.com -init-data "$INIT_DATA"
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/ansokolov/CourseFox/internal/pkg/authgate"
)

func main() {
	baseURL := flag.String("base-url", "http://localhost:4000", "backend base URL")
	initData := flag.String("init-data", os.Getenv("INIT_DATA"), "raw signed payload from the host shell")
	flag.Parse()

	gate := authgate.New(authgate.Config{
		BaseURL: *baseURL,
		Source:  authgate.StaticSource(*initData),
		OnNavigate: func(route string) {
			fmt.Printf("navigate: %s\n", route)
		},
	})

	state := gate.Run(context.Background())
	fmt.Printf("state: %s\n", state)

	switch state {
	case authgate.StateAuthenticated:
		p := gate.Profile()
		fmt.Printf("profile: id=%d telegram_id=%d role=%s subscription=%s\n",
			p.ID, p.TelegramID, p.Role, p.Subscription.Status)
	case authgate.StateDenied:
		fmt.Println(gate.Message())
		os.Exit(1)
	default:
		fmt.Printf("error: %s (%s)\n", gate.ErrorCode(), gate.Message())
		os.Exit(2)
	}
}
