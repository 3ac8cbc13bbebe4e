// ABOUTME: Structural validation for track lists loaded from outside the editor
// ABOUTME: Checks ID uniqueness and variant consistency

package timeline

import (
	"errors"
	"fmt"
)

// Validation errors
var (
	ErrDuplicateID    = errors.New("duplicate id")
	ErrMissingID      = errors.New("missing id")
	ErrMissingText    = errors.New("text element without text properties")
	ErrNegativeLength = errors.New("negative duration or trim")
	ErrUnknownVariant = errors.New("unknown element type")
)

// Validate checks that track IDs are unique in the list, element IDs are unique
// within their track, and every element is a well-formed variant.
// All problems are reported, joined into one error.
func Validate(tracks []*Track) error {
	var errs []error

	seenTracks := make(map[string]struct{}, len(tracks))

	for ti, track := range tracks {
		if track == nil {
			errs = append(errs, fmt.Errorf("track %d: %w", ti, ErrMissingID))
			continue
		}

		if track.ID == "" {
			errs = append(errs, fmt.Errorf("track %d: %w", ti, ErrMissingID))
		} else if _, dup := seenTracks[track.ID]; dup {
			errs = append(errs, fmt.Errorf("track %q: %w", track.ID, ErrDuplicateID))
		}

		seenTracks[track.ID] = struct{}{}

		seenElements := make(map[string]struct{}, len(track.Elements))

		for ei, el := range track.Elements {
			if el == nil || el.ID == "" {
				errs = append(errs, fmt.Errorf("track %q element %d: %w", track.ID, ei, ErrMissingID))
				continue
			}

			if _, dup := seenElements[el.ID]; dup {
				errs = append(errs, fmt.Errorf("track %q element %q: %w", track.ID, el.ID, ErrDuplicateID))
			}

			seenElements[el.ID] = struct{}{}

			if err := validateElement(el); err != nil {
				errs = append(errs, fmt.Errorf("track %q element %q: %w", track.ID, el.ID, err))
			}
		}
	}

	return errors.Join(errs...)
}

func validateElement(el *Element) error {
	switch el.Type {
	case ElementText:
		if el.Text == nil {
			return ErrMissingText
		}
	case ElementMedia, ElementAudio:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownVariant, el.Type)
	}

	if el.Duration < 0 || el.TrimStart < 0 || el.TrimEnd < 0 {
		return ErrNegativeLength
	}

	return nil
}
