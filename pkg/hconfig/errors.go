package hconfig

import "fmt"

var errEmptyName = fmt.Errorf("hconfig: cache spec missing a name")

type duplicateNameError string

func (e duplicateNameError) Error() string { return fmt.Sprintf("hconfig: duplicate cache name %q", string(e)) }

type negativeCapacityError string

func (e negativeCapacityError) Error() string {
	return fmt.Sprintf("hconfig: cache %q has negative capacity", string(e))
}

type invalidPolicyError string

func (e invalidPolicyError) Error() string { return fmt.Sprintf("hconfig: invalid policy %q", string(e)) }

type invalidKeymapVariantError string

func (e invalidKeymapVariantError) Error() string {
	return fmt.Sprintf("hconfig: invalid keymap variant %q", string(e))
}
