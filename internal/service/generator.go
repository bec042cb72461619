package service

import (
	"errors"
	"unicode/utf8"

	"github.com/passkeep/passkeep-go/internal/crypto"
	"github.com/passkeep/passkeep-go/internal/model"
)

// ErrInvalidLetterCase is returned for an unknown letterCase value.
var ErrInvalidLetterCase = errors.New("letterCase must be lower, upper or random")

// GeneratorService handles password generation business logic.
type GeneratorService struct {
	gen *crypto.Generator
}

// NewGeneratorService creates a new GeneratorService.
func NewGeneratorService() *GeneratorService {
	return &GeneratorService{gen: crypto.NewGenerator(nil)}
}

// Generate produces a password based on the given request.
func (s *GeneratorService) Generate(req model.GenerateRequest) (model.GenerateResponse, error) {
	opts, err := optionsFromRequest(req)
	if err != nil {
		return model.GenerateResponse{}, err
	}

	password, err := s.gen.Generate(opts)
	if err != nil {
		return model.GenerateResponse{}, err
	}

	return model.GenerateResponse{
		Password: password,
		Length:   utf8.RuneCountInString(password),
	}, nil
}

// optionsFromRequest applies defaults to missing fields, folds letterCase
// into the letter pools and clamps the length.
func optionsFromRequest(req model.GenerateRequest) (crypto.PasswordOptions, error) {
	defaults := crypto.DefaultOptions()

	opts := crypto.PasswordOptions{
		Length:        req.Length,
		Letters:       boolOrDefault(req.Letters, defaults.Letters),
		Lower:         boolOrDefault(req.Lower, defaults.Lower),
		Upper:         boolOrDefault(req.Upper, defaults.Upper),
		RandomReg:     boolOrDefault(req.RandomReg, defaults.RandomReg),
		Digits:        boolOrDefault(req.Digits, defaults.Digits),
		Symbols:       boolOrDefault(req.Symbols, defaults.Symbols),
		CustomCharset: req.CustomCharset,
	}

	if req.LetterCase != "" {
		c := crypto.LetterCase(req.LetterCase)
		switch c {
		case crypto.CaseLower, crypto.CaseUpper, crypto.CaseRandom:
		default:
			return crypto.PasswordOptions{}, ErrInvalidLetterCase
		}
		opts.ApplyLetterCase(opts.Letters, c)
	} else if !opts.Letters {
		// Letters off clears every letter pool even without a case.
		opts.ApplyLetterCase(false, crypto.CaseLower)
	}

	if opts.Length == 0 {
		opts.Length = crypto.DefaultLength
	}
	opts.Length = crypto.ClampLength(opts.Length)

	return opts, nil
}

// boolOrDefault returns the dereferenced pointer value, or the fallback if nil.
func boolOrDefault(p *bool, fallback bool) bool {
	if p == nil {
		return fallback
	}
	return *p
}
