package providers

import (
	"betcodes/internal/structures"
	"errors"
	"fmt"
	"github.com/gookit/validate"
)

type CnfValidator struct {
	conf *structures.Config
}

func NewCnfValidator(conf *structures.Config) *CnfValidator {
	return &CnfValidator{conf: conf}
}

func (cv *CnfValidator) Validate() error {
	v := validate.Struct(cv.conf)
	if !v.Validate() {
		return fmt.Errorf("invalid config: %w", v.Errors)
	}

	switch cv.conf.Prefs.Driver {
	case "file":
		if cv.conf.Prefs.FilePath == "" {
			return errors.New("invalid config: prefs.filePath is required for the file driver")
		}
	case "redis":
		if cv.conf.Prefs.Redis.Addr == "" {
			return errors.New("invalid config: prefs.redis.addr is required for the redis driver")
		}
	}

	if cv.conf.Ads.FillRate < 0 || cv.conf.Ads.FillRate > 1 {
		return errors.New("invalid config: ads.fillRate must be within [0, 1]")
	}
	return nil
}
