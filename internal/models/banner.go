package models

import "time"

// Banner is the system-wide notice shown at the top of the UI. A single
// record holds the active banner; clearing it deactivates the notice.
type Banner struct {
	Text            string    `json:"text" dynamodbav:"Text"`
	TextColor       string    `json:"text_color" dynamodbav:"TextColor"`
	BackgroundColor string    `json:"background_color" dynamodbav:"BackgroundColor"`
	Active          bool      `json:"active" dynamodbav:"Active"`
	UpdatedBy       string    `json:"updated_by" dynamodbav:"UpdatedBy"`
	UpdatedAt       time.Time `json:"updated_at" dynamodbav:"-"`
}

// PutBannerRequest represents the request body for setting the system banner
type PutBannerRequest struct {
	Text            string `json:"text" binding:"required"`
	TextColor       string `json:"text_color"`
	BackgroundColor string `json:"background_color"`
	Active          bool   `json:"active"`
}

// ToDomain converts the request DTO to the domain Banner
func (req *PutBannerRequest) ToDomain(updatedBy string) *Banner {
	textColor := req.TextColor
	if textColor == "" {
		textColor = "#ffffff"
	}
	background := req.BackgroundColor
	if background == "" {
		background = "#0073bb"
	}
	return &Banner{
		Text:            req.Text,
		TextColor:       textColor,
		BackgroundColor: background,
		Active:          req.Active,
		UpdatedBy:       updatedBy,
		UpdatedAt:       time.Now(),
	}
}
