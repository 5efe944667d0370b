package settings

import (
	"bytes"
	"errors"
	"io"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/skyportlabs/panel/internal/db/controller/panel"
	"github.com/skyportlabs/panel/internal/logo"
)

const (
	logoTypeImage = "image"
	logoTypeNone  = "none"

	// sniffLen is the number of leading bytes inspected to detect the logo format.
	sniffLen = 3072
)

// NameForm is the posted display name.
type NameForm struct {
	Name string `form:"name" validate:"required,max=64"`
}

// ChangeName overwrites the display name.
func (s *Service) ChangeName(c *fiber.Ctx) error {
	form := new(NameForm)
	if err := c.BodyParser(form); err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("Invalid request")
	}

	// stored as submitted, only whitespace-only names are refused
	if err := s.validator.Struct(form); err != nil || strings.TrimSpace(form.Name) == "" {
		log.Debug().Err(err).Msg("rejected display name")
		return c.Status(fiber.StatusBadRequest).SendString("Invalid name")
	}

	if err := panel.SaveName(s.db, form.Name); err != nil {
		log.Error().Err(err).Msg("failed to save display name")
		return internalServerError(c, "Database error")
	}

	s.recordAction(c, ActionName)

	return c.Redirect(Path + "?changednameto=" + url.QueryEscape(form.Name))
}

const logoContentSecurityPolicy = "default-src 'none'; style-src 'unsafe-inline'; sandbox"

// ChangeLogo installs an uploaded image as logo (type=image) or removes it (type=none).
func (s *Service) ChangeLogo(c *fiber.Ctx) error {
	switch c.FormValue("type") {
	case logoTypeImage:
		return s.uploadLogo(c)
	case logoTypeNone:
		return s.removeLogo(c)
	default:
		return c.Status(fiber.StatusBadRequest).SendString("Invalid request")
	}
}

func (s *Service) uploadLogo(c *fiber.Ctx) error {
	fh, err := c.FormFile("logo")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("Invalid request")
	}

	if err = logo.AcceptContentType(fh.Header.Get(fiber.HeaderContentType)); err != nil {
		log.Warn().Err(err).Str("filename", fh.Filename).Msg("rejected logo upload")
		return c.Status(fiber.StatusUnsupportedMediaType).SendString(logo.ErrUnsupportedMediaType.Error())
	}

	file, err := fh.Open()
	if err != nil {
		log.Error().Err(err).Msg("failed to open uploaded logo")
		return internalServerError(c, "Error processing logo change")
	}
	defer file.Close()

	head := make([]byte, sniffLen)

	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		log.Error().Err(err).Msg("failed to read uploaded logo")
		return internalServerError(c, "Error processing logo change")
	}

	head = head[:n]

	detected, err := logo.Sniff(head)
	if err != nil {
		log.Warn().Err(err).Str("filename", fh.Filename).Msg("rejected logo upload")
		return c.Status(fiber.StatusUnsupportedMediaType).SendString(logo.ErrUnsupportedMediaType.Error())
	}

	if err = s.logo.Save(io.MultiReader(bytes.NewReader(head), file)); err != nil {
		log.Error().Err(err).Str("path", s.logo.Path()).Msg("failed to write logo")
		return internalServerError(c, "Error processing logo change")
	}

	if err = panel.SaveLogoPresence(s.db, true); err != nil {
		log.Error().Err(err).Msg("failed to save logo flag")
		return internalServerError(c, "Error processing logo change")
	}

	log.Debug().Str("type", detected).Int64("size", fh.Size).Msg("logo installed")

	s.recordAction(c, ActionLogo)

	return c.Redirect(Path)
}

func (s *Service) removeLogo(c *fiber.Ctx) error {
	if err := s.logo.Remove(); err != nil {
		log.Error().Err(err).Msg("failed to remove logo")
		return internalServerError(c, "Error processing logo change")
	}

	if err := panel.SaveLogoPresence(s.db, false); err != nil {
		log.Error().Err(err).Msg("failed to save logo flag")
		return internalServerError(c, "Error processing logo change")
	}

	s.recordAction(c, ActionLogo)

	return c.Redirect(Path)
}

// ServeLogo sends the installed logo.
func (s *Service) ServeLogo(c *fiber.Ctx) error {
	file, err := s.logo.Open()
	if err != nil {
		return c.SendStatus(fiber.StatusNotFound)
	}
	defer file.Close()

	body, err := io.ReadAll(file)
	if err != nil {
		log.Error().Err(err).Msg("failed to read logo")
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	detected, _ := logo.Sniff(body)

	c.Set(fiber.HeaderContentType, detected)
	c.Set(fiber.HeaderCacheControl, "no-cache")
	// an uploaded svg must not run script on the panel origin
	c.Set(fiber.HeaderContentSecurityPolicy, logoContentSecurityPolicy)
	c.Set(fiber.HeaderXContentTypeOptions, "nosniff")

	return c.Send(body)
}
