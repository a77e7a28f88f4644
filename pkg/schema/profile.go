// Package schema defines the wire structures shared by the housekeeping client,
// its stores and its tools.
package schema

// Profile is the signed-in user together with the property it is scoped to.
// It is returned by GET /auth/v2/profile.
type Profile struct {
	UserID      string          `json:"userID" validate:"required"`
	FullName    string          `json:"fullName"`
	AccountName string          `json:"account_name"`
	TimeStamp   string          `json:"timeStamp"`
	Configs     *ProfileConfigs `json:"Configs,omitempty"`
	Apps        []AppInfo       `json:"Apps,omitempty" validate:"omitempty,dive"`
}

// ProfileConfigs groups the per-hotel configuration blocks of a profile.
type ProfileConfigs struct {
	FOConfig []FOConfig `json:"FOConfig,omitempty" validate:"omitempty,dive"`
}

// FOConfig is the front-office daily configuration of one hotel.
type FOConfig struct {
	FOSysDate string `json:"FOSysDate"`
	HotelName string `json:"HotelName"`
	FOShift   string `json:"FOShift"`
	Address   string `json:"Address"`
}

// AppInfo is a menu/module entitlement granted to the user.
type AppInfo struct {
	Idx        int      `json:"idx"`
	Code       string   `json:"code"`
	Name       string   `json:"name"`
	GrantedAPI []string `json:"grantedApi,omitempty"`
	Config     []string `json:"config,omitempty"`
}

// FrontOffice returns the first front-office configuration, if any.
func (p *Profile) FrontOffice() (FOConfig, bool) {
	if p == nil || p.Configs == nil || len(p.Configs.FOConfig) == 0 {
		return FOConfig{}, false
	}
	return p.Configs.FOConfig[0], true
}

// App looks up an entitlement by its code.
func (p *Profile) App(code string) (AppInfo, bool) {
	if p == nil {
		return AppInfo{}, false
	}
	for _, app := range p.Apps {
		if app.Code == code {
			return app, true
		}
	}
	return AppInfo{}, false
}

// Clone returns a deep copy so cached profiles cannot be mutated through
// a caller's slices.
func (p Profile) Clone() Profile {
	out := p
	if p.Configs != nil {
		cfg := ProfileConfigs{}
		if p.Configs.FOConfig != nil {
			cfg.FOConfig = append([]FOConfig(nil), p.Configs.FOConfig...)
		}
		out.Configs = &cfg
	}
	if p.Apps != nil {
		out.Apps = make([]AppInfo, len(p.Apps))
		for i, app := range p.Apps {
			if app.GrantedAPI != nil {
				app.GrantedAPI = append([]string(nil), app.GrantedAPI...)
			}
			if app.Config != nil {
				app.Config = append([]string(nil), app.Config...)
			}
			out.Apps[i] = app
		}
	}
	return out
}
