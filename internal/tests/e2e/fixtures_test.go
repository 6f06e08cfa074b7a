package e2e

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/you/leadsvc/domain"
	"github.com/you/leadsvc/internal/client"
)

const testPassword = "secret123"

// storedCode reads the verification code straight from the user record
func (s *TestSuite) storedCode(t *testing.T, email string) string {
	t.Helper()
	user, err := s.Container.UserRepo.FindByEmail(context.Background(), email)
	require.NoError(t, err)
	require.NotEmpty(t, user.VerificationCode)
	return user.VerificationCode
}

// seedCode overwrites the stored verification code. "000000" is outside the
// generated range, so a reissued code never equals it.
func (s *TestSuite) seedCode(t *testing.T, email, code string, expiresAt time.Time) {
	t.Helper()
	ctx := context.Background()
	user, err := s.Container.UserRepo.FindByEmail(ctx, email)
	require.NoError(t, err)
	require.NoError(t, s.Container.UserRepo.SetVerificationCode(ctx, user.ID, code, expiresAt))
}

// verifiedClient signs up, verifies and returns a client holding the token
func (s *TestSuite) verifiedClient(t *testing.T, name, email string) *client.Client {
	t.Helper()
	ctx := context.Background()
	c := s.NewClient()

	_, err := c.Signup(ctx, name, email, testPassword)
	require.NoError(t, err)
	_, err = c.Verify(ctx, email, s.storedCode(t, email))
	require.NoError(t, err)
	require.NotEmpty(t, c.Token())
	return c
}

// nextWeekday returns the next date (YYYY-MM-DD, UTC) falling on day
func nextWeekday(day time.Weekday) string {
	d := time.Now().UTC().AddDate(0, 0, 1)
	for d.Weekday() != day {
		d = d.AddDate(0, 0, 1)
	}
	return d.Format("2006-01-02")
}

func bookingForm(date string) domain.BookingForm {
	return domain.BookingForm{
		Name:     "Ravi Kumar",
		Email:    "ravi@example.com",
		Phone:    "+91 98765 43210",
		Gender:   "male",
		Country:  "India",
		Date:     date,
		Time:     "11:00 AM",
		Services: []string{"AI Content Generation", "Predictive AI"},
	}
}
