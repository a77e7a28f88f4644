// Package initdata reads the launch data a Telegram Mini App receives from
// its host and exposes it as an sdk.IdentityProvider.
package initdata

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/celerix-dev/celerix-hk/pkg/schema"
)

// Launch parameter keys.
const (
	KeyQueryID    = "query_id"
	KeyUser       = "user"
	KeyAuthDate   = "auth_date"
	KeyStartParam = "start_param"
	KeyHash       = "hash"
)

// ErrMalformed is wrapped by every Parse failure.
var ErrMalformed = errors.New("malformed init data")

// Parse decodes a raw launch data query string. The signature is not checked;
// the backend does that with the bot token. Surrounding whitespace is ignored
// for decoding, but Session.Raw keeps raw as given.
func Parse(raw string) (*schema.Session, error) {
	query := strings.TrimSpace(raw)
	if query == "" {
		return nil, fmt.Errorf("%w: empty", ErrMalformed)
	}

	values, err := url.ParseQuery(query)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if !values.Has(KeyHash) && !values.Has(KeyUser) && !values.Has(KeyAuthDate) {
		return nil, fmt.Errorf("%w: no launch parameters", ErrMalformed)
	}

	s := &schema.Session{
		QueryID:    values.Get(KeyQueryID),
		StartParam: values.Get(KeyStartParam),
		Hash:       values.Get(KeyHash),
		Raw:        raw,
	}

	if v := values.Get(KeyAuthDate); v != "" {
		sec, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: auth_date %q", ErrMalformed, v)
		}
		s.AuthDate = time.Unix(sec, 0).UTC()
	}

	if v := values.Get(KeyUser); v != "" {
		var u schema.WebAppUser
		if err := json.Unmarshal([]byte(v), &u); err != nil {
			return nil, fmt.Errorf("%w: user: %v", ErrMalformed, err)
		}
		s.User = &u
	}

	return s, nil
}
