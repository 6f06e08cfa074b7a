package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/you/leadsvc/domain"
	"github.com/you/leadsvc/internal/client"
)

var bookCmd = &cobra.Command{
	Use:   "book",
	Short: "Book a weekend consultation",
	Long: `Book a consultation. Dates must fall on a Saturday or Sunday.

Time slots: ` + strings.Join(domain.TimeSlots, ", ") + `
Services:   ` + strings.Join(domain.ServiceCatalog, ", "),
	RunE: runBook,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the local session state",
	RunE:  runStatus,
}

func registerBookingCommands() {
	f := bookCmd.Flags()
	f.String("name", "", "Contact name (default: signed-in user)")
	f.String("email", "", "Contact e-mail (default: signed-in user)")
	f.String("phone", "", "Phone number (required)")
	f.String("gender", "", "Male, Female, Other or \"Prefer not to say\" (required)")
	f.String("country", "", "Country (required)")
	f.String("date", "", "Weekend date, YYYY-MM-DD (required)")
	f.String("time", "", "Time slot, e.g. \"10:00 AM\" (required)")
	f.StringArray("service", nil, "Service to discuss, repeatable (at least one)")

	rootCmd.AddCommand(bookCmd, statusCmd)
}

func runBook(cmd *cobra.Command, args []string) error {
	store, api, err := session()
	if err != nil {
		return err
	}
	if api.Token() == "" {
		return fmt.Errorf("not signed in, run `leadctl signin` first")
	}

	form := domain.BookingForm{}
	f := cmd.Flags()
	form.Name, _ = f.GetString("name")
	form.Email, _ = f.GetString("email")
	form.Phone, _ = f.GetString("phone")
	form.Gender, _ = f.GetString("gender")
	form.Country, _ = f.GetString("country")
	form.Date, _ = f.GetString("date")
	form.Time, _ = f.GetString("time")
	form.Services, _ = f.GetStringArray("service")

	if user := store.Snapshot().User; user != nil {
		if form.Name == "" {
			form.Name = user.Name
		}
		if form.Email == "" {
			form.Email = user.Email
		}
	}

	if err := store.OpenModal(client.ModalBooking); err != nil {
		return err
	}

	ctx, cancel := requestContext(cmd)
	defer cancel()
	booking, err := api.CreateBooking(ctx, form)
	if err != nil {
		return err
	}

	if err := store.CloseModal(client.ModalBooking); err != nil {
		return err
	}
	if err := store.OpenModal(client.ModalSuccess); err != nil {
		return err
	}
	printf(cmd, "Booking %s confirmed for %s at %s\n", booking.BookingID, booking.Date, booking.Time)
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	store, err := client.LoadStore(sessionPath)
	if err != nil {
		return err
	}
	st := store.Snapshot()

	printf(cmd, "server:     %s\n", serverURL)
	printf(cmd, "signed up:  %t\n", st.IsSignedUp)
	printf(cmd, "signed in:  %t\n", st.Token != "")
	if st.User != nil {
		printf(cmd, "user:       %s <%s>\n", st.User.Name, st.User.Email)
	}
	if st.PendingEmail != "" {
		printf(cmd, "pending:    %s\n", st.PendingEmail)
	}
	if st.CodeExpiry != nil {
		left := time.Until(*st.CodeExpiry).Round(time.Second)
		if left > 0 {
			printf(cmd, "code valid: %s\n", left)
		} else {
			printf(cmd, "code valid: expired\n")
		}
	}

	var open []string
	for _, name := range []string{client.ModalSignup, client.ModalBooking, client.ModalSuccess} {
		if st.Modals[name] {
			open = append(open, name)
		}
	}
	if len(open) > 0 {
		printf(cmd, "open:       %s\n", strings.Join(open, ", "))
	}
	return nil
}
