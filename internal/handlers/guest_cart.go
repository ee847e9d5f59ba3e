package handlers

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"time"

	"shopfront/internal/models"

	"github.com/gofiber/fiber/v2"
)

// maxGuestLines bounds the cookie so it stays under the browser limit.
const maxGuestLines = 50

var errGuestCartFull = errors.New("guest cart is full")

// encodeGuestCart renders guest lines as a cookie value. Lines are never
// dropped: a list longer than maxGuestLines is an error.
func encodeGuestCart(lines []models.GuestLine) (string, error) {
	if len(lines) > maxGuestLines {
		return "", errGuestCartFull
	}
	raw, err := json.Marshal(lines)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// decodeGuestCart parses a cookie value. Lines with a zero product id are
// skipped; a list longer than maxGuestLines is rejected.
func decodeGuestCart(value string) ([]models.GuestLine, error) {
	if value == "" {
		return nil, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return nil, err
	}
	var lines []models.GuestLine
	if err := json.Unmarshal(raw, &lines); err != nil {
		return nil, err
	}
	if len(lines) > maxGuestLines {
		return nil, errGuestCartFull
	}
	kept := lines[:0]
	for _, l := range lines {
		if l.ProductID != 0 {
			kept = append(kept, l)
		}
	}
	return kept, nil
}

type guestCookie struct {
	name   string
	secure bool
}

func (g guestCookie) read(c *fiber.Ctx) ([]models.GuestLine, bool) {
	lines, err := decodeGuestCart(c.Cookies(g.name))
	if err != nil {
		return nil, false
	}
	return lines, true
}

func (g guestCookie) write(c *fiber.Ctx, lines []models.GuestLine) error {
	if len(lines) == 0 {
		g.clear(c)
		return nil
	}
	value, err := encodeGuestCart(lines)
	if err != nil {
		return err
	}
	c.Cookie(&fiber.Cookie{
		Name:     g.name,
		Value:    value,
		Path:     "/",
		Expires:  time.Now().Add(30 * 24 * time.Hour),
		HTTPOnly: true,
		Secure:   g.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return nil
}

func (g guestCookie) clear(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     g.name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   g.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
