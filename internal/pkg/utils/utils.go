package utils

import (
	"fmt"
	"io"
	"net/http"
	"regexp"

	"github.com/pkg/errors"
)

// ErrWrongHTTPCall indicates failure due wrong http call
var ErrWrongHTTPCall = errors.New("Wrong http call")

// ValidateResponse returns error if code is not in [200, 299]
func ValidateResponse(resp *http.Response) error {
	if !(resp.StatusCode >= 200 && resp.StatusCode <= 299) {
		bodyBytes, _ := io.ReadAll(resp.Body)
		trimS := ""
		if len(bodyBytes) > 100 {
			bodyBytes = bodyBytes[:100]
			trimS = "..."
		}
		msg := fmt.Sprintf("Wrong response code from server. Code: %d\n%s",
			resp.StatusCode, string(bodyBytes)+trimS)
		if resp.StatusCode == 400 {
			return errors.Wrap(ErrWrongHTTPCall, msg)
		}
		return errors.New(msg)
	}
	return nil
}

var botTokenRegexp = regexp.MustCompile(`/bot[^/]+`)

// URLToLog masks the bot token in a telegram file URL
func URLToLog(link string) string {
	return botTokenRegexp.ReplaceAllString(link, "/botxxxx")
}
