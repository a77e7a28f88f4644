package initdata

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/celerix-dev/celerix-hk/pkg/schema"
)

// webAppDataKey seeds the secret key derivation for Mini App launch data.
const webAppDataKey = "WebAppData"

// Mock builds signed launch data for running outside Telegram. The result
// passes the backend's check when botToken matches the bot it trusts.
func Mock(botToken string, user schema.WebAppUser, now time.Time) (string, error) {
	if botToken == "" {
		return "", fmt.Errorf("bot token is required to sign init data")
	}

	userJSON, err := json.Marshal(user)
	if err != nil {
		return "", fmt.Errorf("encode user: %w", err)
	}

	values := url.Values{}
	values.Set(KeyQueryID, uuid.NewString())
	values.Set(KeyUser, string(userJSON))
	values.Set(KeyAuthDate, strconv.FormatInt(now.Unix(), 10))
	values.Set(KeyHash, Sign(values, botToken))

	return values.Encode(), nil
}

// Sign computes the hex hash over every parameter except hash itself.
func Sign(values url.Values, botToken string) string {
	secret := mac([]byte(webAppDataKey), []byte(botToken))
	return fmt.Sprintf("%x", mac(secret, []byte(dataCheckString(values))))
}

// dataCheckString joins key=value pairs sorted by key, one per line.
func dataCheckString(values url.Values) string {
	keys := make([]string, 0, len(values))
	for k := range values {
		if k == KeyHash {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, k+"="+values.Get(k))
	}
	return strings.Join(lines, "\n")
}

func mac(key, msg []byte) []byte {
	h := hmac.New(sha256.New, key)
	h.Write(msg)
	return h.Sum(nil)
}
