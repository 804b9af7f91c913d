package dupcheck

import (
	"errors"
	"testing"

	openai "github.com/sashabaranov/go-openai"
)

func TestTranslateAPIError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{
			name: "429 throttled",
			err:  &openai.APIError{HTTPStatusCode: 429, Message: "Rate limit reached"},
			want: ErrRateLimited,
		},
		{
			name: "429 insufficient quota",
			err:  &openai.APIError{HTTPStatusCode: 429, Code: "insufficient_quota", Message: "You exceeded your current quota"},
			want: ErrQuotaExceeded,
		},
		{
			name: "402 payment required",
			err:  &openai.APIError{HTTPStatusCode: 402, Message: "Payment required"},
			want: ErrQuotaExceeded,
		},
		{
			name: "rate limit in plain error text",
			err:  errors.New("status code 429: Too Many Requests"),
			want: ErrRateLimited,
		},
		{
			name: "server error stays generic",
			err:  &openai.APIError{HTTPStatusCode: 500, Message: "internal error"},
			want: nil,
		},
		{
			name: "transport error stays generic",
			err:  errors.New("dial tcp: connection refused"),
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := translateAPIError(tt.err)
			if got == nil {
				t.Fatal("expected non-nil error")
			}
			if tt.want != nil {
				if !errors.Is(got, tt.want) {
					t.Errorf("error = %v, want wrapping %v", got, tt.want)
				}
				return
			}
			if errors.Is(got, ErrRateLimited) || errors.Is(got, ErrQuotaExceeded) {
				t.Errorf("error = %v, want generic", got)
			}
		})
	}
}
