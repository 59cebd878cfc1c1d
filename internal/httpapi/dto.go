package httpapi

import "taskTracker/internal/auth"

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type getQuestionRequest struct {
	Username string `json:"username"`
}

type resetPasswordRequest struct {
	Username    string `json:"username"`
	Answer      string `json:"answer"`
	NewPassword string `json:"newPassword"`
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

type changeSecurityQuestionRequest struct {
	Password    string `json:"password"`
	NewQuestion string `json:"newQuestion"`
	NewAnswer   string `json:"newAnswer"`
}

// todoRequest is the body of create and update. due_date and memo may be null.
type todoRequest struct {
	Text     string  `json:"text"`
	DueDate  *string `json:"due_date"`
	Priority string  `json:"priority"`
	Memo     *string `json:"memo"`
	Category string  `json:"category"`
}

type userView struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// result is the uniform envelope of every non-list response.
type result struct {
	Success  bool      `json:"success"`
	Message  string    `json:"message,omitempty"`
	Token    string    `json:"token,omitempty"`
	User     *userView `json:"user,omitempty"`
	Question string    `json:"question,omitempty"`
	ID       int64     `json:"id,omitempty"`
}

func ok() result { return result{Success: true} }

func fail(msg string) result { return result{Success: false, Message: msg} }

func viewOf(p auth.Principal) *userView {
	return &userView{ID: p.UserID, Username: p.Username}
}
