package handlers

import (
	"fmt"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/yungbote/learnpath-backend/internal/roadmap"
)

var registerOnce sync.Once

// RegisterValidators adds the custom binding tags used by request bodies to
// gin's validator. Safe to call more than once.
func RegisterValidators() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
			return
		}
		err = v.RegisterValidation("level", func(fl validator.FieldLevel) bool {
			return roadmap.ValidLevel(fl.Field().String())
		})
	})
	return err
}
