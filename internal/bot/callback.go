package bot

import (
	"fmt"
	"strconv"
	"strings"
)

// Callback payload prefixes. The trailing segment is always the numeric ID.
const (
	callbackShowSearch = "show_search"
	callbackWatched    = "watched"
)

// WatchedCallback builds the payload for a watched-toggle button.
func WatchedCallback(resultID int) string {
	return fmt.Sprintf("%s_%d", callbackWatched, resultID)
}

// ShowSearchCallback builds the payload for a reveal-results button.
func ShowSearchCallback(searchID int) string {
	return fmt.Sprintf("%s_%d", callbackShowSearch, searchID)
}

// ParseCallback splits a payload into its action prefix and trailing
// numeric ID.
func ParseCallback(data string) (action string, id int, err error) {
	idx := strings.LastIndex(data, "_")
	if idx < 0 {
		return "", 0, fmt.Errorf("malformed callback payload: %q", data)
	}
	id, err = strconv.Atoi(data[idx+1:])
	if err != nil {
		return "", 0, fmt.Errorf("malformed callback payload: %q", data)
	}
	return data[:idx], id, nil
}
