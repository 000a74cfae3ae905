package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"tycoonhub/pkg/models"
)

const defaultBaseURL = "http://localhost:8080"

type tokenData struct {
	Token string `json:"token"`
}

type authResponse struct {
	Token string `json:"token"`
}

type gameItem struct {
	models.Game
	CoverImage string `json:"cover_image"`
}

type gamesListResponse struct {
	Total  int        `json:"total"`
	Limit  int        `json:"limit"`
	Offset int        `json:"offset"`
	Items  []gameItem `json:"items"`
}

func main() {
	global := flag.NewFlagSet("tycoonhub", flag.ExitOnError)
	baseURL := global.String("api", defaultBaseURL, "API base URL")
	tokenPath := global.String("token", defaultTokenPath(), "token file path")
	if err := global.Parse(os.Args[1:]); err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	args := global.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	ctx := context.Background()
	cli := &client{baseURL: strings.TrimRight(*baseURL, "/"), tokenPath: *tokenPath}

	var err error
	switch args[0] {
	case "register":
		err = cli.register(ctx, args[1:])
	case "login":
		err = cli.login(ctx, args[1:])
	case "logout":
		err = cli.logout(ctx)
	case "games":
		err = cli.games(ctx, args[1:])
	case "submit":
		err = cli.submit(ctx, args[1:])
	case "sync":
		err = cli.sync(ctx, args[1:])
	case "watch":
		err = cli.watch(ctx)
	default:
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		log.Fatalf("%s: %v", args[0], err)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `usage: tycoonhub [-api URL] [-token PATH] <command>

commands:
  register -username U -email E -password P
  login -email E -password P
  logout
  games [-q TEXT] [-genres G1,G2] [-type free|paid] [-limit N] [-offset N]
  games get -id ID
  submit -name N -developer D -type free|paid -status released|unreleased -description TEXT [-link URL] [-image URL]
  sync [-force]
  watch`)
}

type client struct {
	baseURL   string
	tokenPath string
}

func (c *client) register(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	username := fs.String("username", "", "username")
	email := fs.String("email", "", "email")
	password := fs.String("password", "", "password")
	_ = fs.Parse(args)

	body := map[string]string{"username": *username, "email": *email, "password": *password}
	var resp authResponse
	if err := c.doJSON(ctx, http.MethodPost, "/auth/register", body, &resp, false); err != nil {
		return err
	}
	if err := c.saveToken(resp.Token); err != nil {
		return err
	}
	fmt.Println("registered and logged in")
	return nil
}

func (c *client) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "email")
	password := fs.String("password", "", "password")
	_ = fs.Parse(args)

	body := map[string]string{"email": *email, "password": *password}
	var resp authResponse
	if err := c.doJSON(ctx, http.MethodPost, "/auth/login", body, &resp, false); err != nil {
		return err
	}
	if err := c.saveToken(resp.Token); err != nil {
		return err
	}
	fmt.Println("logged in")
	return nil
}

func (c *client) logout(ctx context.Context) error {
	if err := c.doJSON(ctx, http.MethodPost, "/auth/logout", nil, nil, true); err != nil {
		return err
	}
	_ = os.Remove(c.tokenPath)
	fmt.Println("logged out")
	return nil
}

func (c *client) games(ctx context.Context, args []string) error {
	if len(args) > 0 && args[0] == "get" {
		fs := flag.NewFlagSet("games get", flag.ExitOnError)
		id := fs.String("id", "", "game id")
		_ = fs.Parse(args[1:])
		if *id == "" {
			return fmt.Errorf("id required")
		}

		var g gameItem
		if err := c.doJSON(ctx, http.MethodGet, "/games/"+url.PathEscape(*id), nil, &g, false); err != nil {
			return err
		}
		return printJSON(g)
	}

	fs := flag.NewFlagSet("games", flag.ExitOnError)
	q := fs.String("q", "", "keyword")
	genres := fs.String("genres", "", "comma separated genres")
	kind := fs.String("type", "", "free or paid")
	limit := fs.Int("limit", 20, "page size")
	offset := fs.Int("offset", 0, "page offset")
	_ = fs.Parse(args)

	vals := url.Values{}
	if *q != "" {
		vals.Set("q", *q)
	}
	if *genres != "" {
		vals.Set("genres", *genres)
	}
	if *kind != "" {
		vals.Set("type", *kind)
	}
	vals.Set("limit", fmt.Sprint(*limit))
	vals.Set("offset", fmt.Sprint(*offset))

	var resp gamesListResponse
	if err := c.doJSON(ctx, http.MethodGet, "/games?"+vals.Encode(), nil, &resp, false); err != nil {
		return err
	}

	fmt.Printf("%d games (showing %d from offset %d)\n", resp.Total, len(resp.Items), resp.Offset)
	for _, g := range resp.Items {
		price := "free"
		if g.Price > 0 {
			price = fmt.Sprintf("%.2f", g.Price)
		}
		fmt.Printf("  %-8s %-40s %-8s %.1f/5  %s\n", g.ID, truncate(g.Title, 40), price, g.Rating, g.ReleaseDate)
	}
	return nil
}

func (c *client) submit(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("submit", flag.ExitOnError)
	name := fs.String("name", "", "game name")
	developer := fs.String("developer", "", "developer name")
	kind := fs.String("type", "", "free or paid")
	status := fs.String("status", "", "released or unreleased")
	link := fs.String("link", "", "store link")
	image := fs.String("image", "", "image URL")
	description := fs.String("description", "", "description")
	_ = fs.Parse(args)

	body := map[string]string{
		"name":        *name,
		"developer":   *developer,
		"type":        *kind,
		"status":      *status,
		"link":        *link,
		"image":       *image,
		"description": *description,
	}
	var created models.Submission
	if err := c.doJSON(ctx, http.MethodPost, "/users/submissions", body, &created, true); err != nil {
		return err
	}
	fmt.Printf("submitted %s (%s)\n", created.Name, created.ID)
	return nil
}

func (c *client) sync(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("sync", flag.ExitOnError)
	force := fs.Bool("force", false, "ignore the run gate")
	_ = fs.Parse(args)

	path := "/sync"
	if *force {
		path += "?force=1"
	}
	var resp map[string]any
	if err := c.doJSON(ctx, http.MethodPost, path, nil, &resp, false); err != nil {
		return err
	}
	return printJSON(resp)
}

func (c *client) watch(ctx context.Context) error {
	wsURL, err := toWebsocketURL(c.baseURL + "/ws")
	if err != nil {
		return err
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", wsURL, err)
	}
	defer conn.Close()

	log.Printf("watching %s", wsURL)
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		fmt.Print(string(msg))
	}
}

func (c *client) doJSON(ctx context.Context, method, path string, body, out any, authed bool) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		token, err := c.loadToken()
		if err != nil {
			return fmt.Errorf("not logged in: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	httpClient := &http.Client{Timeout: 15 * time.Second}
	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *client) saveToken(token string) error {
	if token == "" {
		return fmt.Errorf("empty token in response")
	}
	if err := os.MkdirAll(filepath.Dir(c.tokenPath), 0o755); err != nil {
		return fmt.Errorf("ensure token dir: %w", err)
	}
	b, _ := json.Marshal(tokenData{Token: token})
	if err := os.WriteFile(c.tokenPath, b, 0o600); err != nil {
		return fmt.Errorf("write token: %w", err)
	}
	return nil
}

func (c *client) loadToken() (string, error) {
	b, err := os.ReadFile(c.tokenPath)
	if err != nil {
		return "", err
	}
	var td tokenData
	if err := json.Unmarshal(b, &td); err != nil {
		return "", fmt.Errorf("parse token file: %w", err)
	}
	if td.Token == "" {
		return "", fmt.Errorf("empty token file")
	}
	return td.Token, nil
}

func defaultTokenPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		home = "."
	}
	return filepath.Join(home, ".tycoonhub", "token.json")
}

func toWebsocketURL(httpURL string) (string, error) {
	u, err := url.Parse(httpURL)
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	return u.String(), nil
}

func printJSON(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(b))
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
