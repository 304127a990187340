package i18n

import (
	"embed"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github/chapool/intent-wallet/internal/config"
	"github/chapool/intent-wallet/internal/wallet/failure"
	"golang.org/x/text/language"
)

//go:embed messages/*.toml
var embedded embed.FS

// Data is the template data passed to a message.
type Data map[string]any

// Service translates message keys into the best matching supported language.
type Service struct {
	bundle      *i18n.Bundle
	matcher     language.Matcher
	defaultLang language.Tag
}

// New loads the embedded message files and, if configured, every *.toml file
// in config.I18n.BundleDirAbs on top of them.
func New(config config.Server) (*Service, error) {
	bundle := i18n.NewBundle(config.I18n.DefaultLanguage)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	files, err := embedded.ReadDir("messages")
	if err != nil {
		return nil, errors.Wrap(err, "failed to read embedded messages")
	}

	for _, f := range files {
		if _, err := bundle.LoadMessageFileFS(embedded, "messages/"+f.Name()); err != nil {
			return nil, errors.Wrapf(err, "failed to load embedded message file %s", f.Name())
		}
	}

	if dir := config.I18n.BundleDirAbs; dir != "" {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, errors.Wrap(err, "failed to read i18n bundle directory")
		}

		for _, e := range entries {
			if e.IsDir() || filepath.Ext(e.Name()) != ".toml" {
				continue
			}

			if _, err := bundle.LoadMessageFile(filepath.Join(dir, e.Name())); err != nil {
				return nil, errors.Wrapf(err, "failed to load message file %s", e.Name())
			}
		}
	}

	return &Service{
		bundle:      bundle,
		matcher:     language.NewMatcher(bundle.LanguageTags()),
		defaultLang: config.I18n.DefaultLanguage,
	}, nil
}

// Translate returns the message for key in lang. Unknown keys are returned as is.
func (s *Service) Translate(key string, lang language.Tag, data ...Data) string {
	localizer := i18n.NewLocalizer(s.bundle, lang.String())

	cfg := &i18n.LocalizeConfig{MessageID: key}
	if len(data) > 0 {
		cfg.TemplateData = data[0]
	}

	msg, err := localizer.Localize(cfg)
	if err != nil {
		log.Debug().Err(err).Str("key", key).Str("lang", lang.String()).Msg("Failed to translate key")
		return key
	}

	return msg
}

// FailureReason renders err as a user visible sentence.
func (s *Service) FailureReason(err error, lang language.Tag) string {
	if err == nil {
		return ""
	}

	e, ok := failure.As(err)
	if !ok {
		return s.Translate("failure."+string(failure.KindUnknown), lang, Data{"Detail": err.Error()})
	}

	detail := e.Message
	if detail == "" && e.Err != nil {
		detail = e.Err.Error()
	}

	return s.Translate("failure."+string(e.Kind), lang, Data{
		"Detail": detail,
		"Op":     e.Op,
		"Code":   e.Code,
		"Amount": e.Amount,
	})
}

// ParseAcceptLanguage picks the best supported language of an Accept-Language header.
func (s *Service) ParseAcceptLanguage(header string) language.Tag {
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return s.defaultLang
	}

	_, idx, confidence := s.matcher.Match(tags...)
	if confidence == language.No {
		return s.defaultLang
	}

	return s.bundle.LanguageTags()[idx]
}
