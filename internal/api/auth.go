package api

import (
	"context"
	"net/http"
)

// AuthResult is what a successful signin/signup hands back: the token
// plus whichever account shape matches the role.
type AuthResult struct {
	Token  string
	User   *User
	Barber *BarberAccount
}

type User struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	PhoneNumber string `json:"phoneNumber"`
}

type BarberAccount struct {
	ID       int64    `json:"id"`
	Name     string   `json:"name"`
	Username string   `json:"username"`
	Lat      *float64 `json:"lat"`
	Long     *float64 `json:"long"`
}

// Users authenticate with a phone number only; barbers carry a password.

func (c *Client) SignInUser(ctx context.Context, phone string) (AuthResult, error) {
	return c.auth(ctx, "/user/signin", map[string]string{"phoneNumber": phone})
}

func (c *Client) SignUpUser(ctx context.Context, name, phone string) (AuthResult, error) {
	return c.auth(ctx, "/user/signup", map[string]string{"name": name, "phoneNumber": phone})
}

func (c *Client) SignInBarber(ctx context.Context, username, password string) (AuthResult, error) {
	return c.auth(ctx, "/barber/signin", map[string]string{"username": username, "password": password})
}

func (c *Client) SignUpBarber(ctx context.Context, name, username, password string, lat, long float64) (AuthResult, error) {
	return c.auth(ctx, "/barber/signup", map[string]any{
		"name": name, "username": username, "password": password,
		"lat": lat, "long": long,
	})
}

func (c *Client) auth(ctx context.Context, path string, body any) (AuthResult, error) {
	var payload authResp
	if _, err := c.do(ctx, http.MethodPost, path, body, &payload); err != nil {
		return AuthResult{}, err
	}
	res := AuthResult{Token: payload.Token}
	if payload.User != nil {
		res.User = &User{ID: payload.User.ID, Name: payload.User.Name, PhoneNumber: payload.User.PhoneNumber}
	}
	if payload.Barber != nil {
		res.Barber = &BarberAccount{
			ID:       payload.Barber.ID,
			Name:     payload.Barber.Name,
			Username: payload.Barber.Username,
			Lat:      payload.Barber.Lat,
			Long:     payload.Barber.Long,
		}
	}
	return res, nil
}
