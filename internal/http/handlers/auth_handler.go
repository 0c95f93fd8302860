package handlers

import (
	"errors"
	"time"

	"github.com/Tkay24/commerce/internal/log"
	"github.com/Tkay24/commerce/internal/services"
	"github.com/Tkay24/commerce/internal/validate"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AuthHandler struct {
	Auth *services.AuthService
}

func ensureSID(c *fiber.Ctx) string {
	sid := c.Cookies("sid")
	if sid == "" {
		sid = uuid.NewString()
		c.Cookie(&fiber.Cookie{
			Name:     "sid",
			Value:    sid,
			Path:     "/",
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
			Secure:   false,
		})
	}
	return sid
}

func (h *AuthHandler) LoginForm(c *fiber.Ctx) error {
	return render(c, "login", fiber.Map{"Err": ""})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	sid := ensureSID(c)
	username := c.FormValue("username")
	pass := c.FormValue("password")
	if _, ok := validate.Username(username); !ok {
		log.Security(c, "auth.login.fail", map[string]any{"username": username, "reason": "bad_format"})
		return render(c.Status(401), "login", fiber.Map{"Err": "Invalid username and/or password."})
	}

	_, err := h.Auth.Login(sid, username, pass)
	if err != nil {
		log.Security(c, "auth.login.fail", map[string]any{"username": username})
		return render(c.Status(401), "login", fiber.Map{"Err": "Invalid username and/or password."})
	}

	log.Audit(c, "auth.login.success", map[string]any{"username": username})
	return c.Redirect("/")
}

func (h *AuthHandler) RegisterForm(c *fiber.Ctx) error {
	return render(c, "register", fiber.Map{"Err": ""})
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	sid := ensureSID(c)
	username := c.FormValue("username")
	pass := c.FormValue("password")
	confirm := c.FormValue("confirmation")

	if _, ok := validate.Username(username); !ok {
		return render(c.Status(400), "register", fiber.Map{"Err": "Enter a valid username (letters, digits, underscore)."})
	}
	if !validate.Password(pass) {
		return render(c.Status(400), "register", fiber.Map{"Err": "Password must be 8-64 characters."})
	}

	_, err := h.Auth.Register(sid, username, pass, confirm)
	switch {
	case errors.Is(err, services.ErrPasswordMismatch):
		return render(c.Status(400), "register", fiber.Map{"Err": "Passwords must match."})
	case errors.Is(err, services.ErrUsernameTaken):
		return render(c.Status(409), "register", fiber.Map{"Err": "Username already taken."})
	case err != nil:
		log.Error(c, "auth.register.fail", err, map[string]any{"username": username})
		return render(c.Status(500), "register", fiber.Map{"Err": "Could not create account. Please try again."})
	}

	log.Audit(c, "auth.register.success", map[string]any{"username": username})
	return c.Redirect("/")
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	sid := ensureSID(c)
	_ = h.Auth.Logout(sid)
	// Expire cookie
	c.Cookie(&fiber.Cookie{
		Name:     "sid",
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   false,
		Expires:  time.Now().Add(-1 * time.Hour),
	})
	log.Audit(c, "auth.logout", map[string]any{"sid": sid})
	return c.Redirect("/")
}
