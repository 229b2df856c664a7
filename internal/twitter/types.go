package twitter

import "time"

// Space models a space object from the v2 API.
type Space struct {
	ID               string     `json:"id"`
	Title            string     `json:"title"`
	State            string     `json:"state"`
	ParticipantCount int        `json:"participant_count"`
	HostIDs          []string   `json:"host_ids"`
	CreatedAt        *time.Time `json:"created_at"`
	ScheduledStart   *time.Time `json:"scheduled_start"`
}

// IsLive reports whether the space is currently broadcasting.
func (s Space) IsLive() bool { return s.State == "live" }

// User models a user object from the v2 API.
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
}

// Includes carries expansion objects attached to a response.
type Includes struct {
	Users []User `json:"users"`
}

// HostUsername resolves the first host id against the included users.
func (i *Includes) HostUsername(hostIDs []string) string {
	if i == nil || len(hostIDs) == 0 {
		return ""
	}
	for _, u := range i.Users {
		if u.ID == hostIDs[0] {
			return u.Username
		}
	}
	return ""
}

type apiError struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

type userResponse struct {
	Data   *User      `json:"data"`
	Errors []apiError `json:"errors"`
}

type spaceResponse struct {
	Data     *Space     `json:"data"`
	Includes *Includes  `json:"includes"`
	Errors   []apiError `json:"errors"`
}

type spacesResponse struct {
	Data     []Space    `json:"data"`
	Includes *Includes  `json:"includes"`
	Errors   []apiError `json:"errors"`
	Meta     struct {
		ResultCount int `json:"result_count"`
	} `json:"meta"`
}
