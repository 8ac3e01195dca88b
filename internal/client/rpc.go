package client

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/valyala/fasthttp"

	"cloudchat/internal/models"
	"cloudchat/internal/utils"
)

// API is the HTTP boundary: room/contact directory, profiles, and public-key
// registration. Failures here are transient-network class errors; nothing is
// fatal to the session and each call is retry-eligible by its caller.
type API struct {
	base string
	cli  *fasthttp.Client
}

func NewAPI(baseURL string) *API {
	return &API{
		base: baseURL,
		cli: &fasthttp.Client{
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
	}
}

// ChatEntry is one active conversation in the directory response.
type ChatEntry struct {
	Room        string         `json:"room"`
	Name        string         `json:"name"`
	Nickname    string         `json:"nickname"`
	AvatarColor string         `json:"avatar_color"`
	AvatarEmoji string         `json:"avatar_emoji"`
	Type        string         `json:"type"`
	Username    string         `json:"username"`
	LastMsg     string         `json:"last_msg"`
	LastMsgTime float64        `json:"last_msg_time"`
	PublicKey   string         `json:"public_key"`
}

// ContactEntry is one known user without an open conversation.
type ContactEntry struct {
	Username    string  `json:"username"`
	Nickname    string  `json:"nickname"`
	AvatarColor string  `json:"avatar_color"`
	AvatarEmoji string  `json:"avatar_emoji"`
	Activity    string  `json:"current_activity"`
	LastSeen    float64 `json:"last_seen"`
	PublicKey   string  `json:"public_key"`
}

type DirectoryResponse struct {
	Chats []ChatEntry    `json:"chats"`
	Users []ContactEntry `json:"users"`
}

// FetchDirectory loads the room/contact directory.
func (a *API) FetchDirectory() (*DirectoryResponse, error) {
	var out DirectoryResponse
	if err := a.getJSON("/api/chats", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type profileResponse struct {
	Success bool           `json:"success"`
	Profile models.Profile `json:"profile"`
}

// FetchProfile loads a user's public profile, including public-key presence.
func (a *API) FetchProfile(username string) (*models.Profile, error) {
	var out profileResponse
	if err := a.getJSON("/api/profile/"+username, &out); err != nil {
		return nil, err
	}
	if !out.Success {
		return nil, utils.ErrNetworkFailed.WithDetails("profile not found: " + username)
	}
	out.Profile.Username = username
	return &out.Profile, nil
}

// UpdateProfile posts local profile edits.
func (a *API) UpdateProfile(edit models.ProfileEdit) error {
	return a.postJSON("/api/user/profile", edit, nil)
}

type keyUpload struct {
	Username  string `json:"username"`
	PublicKey string `json:"public_key"`
}

// PublishKey registers the local public half with the server directory so
// peers can seal messages for us.
func (a *API) PublishKey(identity, publicKey string) error {
	return a.postJSON("/api/keys", keyUpload{Username: identity, PublicKey: publicKey}, nil)
}

func (a *API) getJSON(path string, out any) error {
	return a.do(fasthttp.MethodGet, path, nil, out)
}

func (a *API) postJSON(path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return a.do(fasthttp.MethodPost, path, body, out)
}

func (a *API) do(method, path string, body []byte, out any) error {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(a.base + path)
	req.Header.SetMethod(method)
	if body != nil {
		req.Header.SetContentType("application/json")
		req.SetBody(body)
	}

	if err := a.cli.Do(req, resp); err != nil {
		return utils.ErrNetworkFailed.WithDetails(err.Error())
	}
	if code := resp.StatusCode(); code < 200 || code >= 300 {
		return utils.ErrNetworkFailed.WithDetails(fmt.Sprintf("%s %s: status %d", method, path, code))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return utils.ErrNetworkFailed.WithDetails("bad response body: " + err.Error())
	}
	return nil
}
