package sdjwt

import (
	"github.com/creasty/defaults"
	"github.com/kelseyhightower/envconfig"
)

// ceilings bounds resource-sensitive inputs (§5/§6). These are package-level
// vars with compiled-in defaults rather than constants so a caller can widen
// or narrow them once at process start via LoadCeilings — the library itself
// never reads the environment implicitly.
type ceilings struct {
	MaxB64InputBytes int `envconfig:"SDJWT_MAX_B64_BYTES" default:"10485760"`
	MaxJWTSize       int `envconfig:"SDJWT_MAX_JWT_SIZE" default:"65536"`
	MaxDisclosures   int `envconfig:"SDJWT_MAX_DISCLOSURES" default:"100"`
	MaxNestingDepth  int `envconfig:"SDJWT_MAX_NESTING_DEPTH" default:"10"`
	MaxDecoyDigests  int `envconfig:"SDJWT_MAX_DECOY_DIGESTS" default:"64"`
	MaxKidLength     int `envconfig:"SDJWT_MAX_KID_LENGTH" default:"256"`
}

// Ceilings holds the active resource ceilings. Mutated only by LoadCeilings.
var Ceilings = ceilings{
	MaxB64InputBytes: defaultMaxB64Bytes,
	MaxJWTSize:       65536,
	MaxDisclosures:   100,
	MaxNestingDepth:  10,
	MaxDecoyDigests:  64,
	MaxKidLength:     256,
}

// LoadCeilings overrides Ceilings from the process environment, applying
// creasty/defaults first so unset fields keep their compiled-in values. It is
// the only place this package looks at the environment; callers opt in by
// invoking it once at process start, matching the teacher's own
// configuration.New(ctx) call.
func LoadCeilings() error {
	var c ceilings
	if err := defaults.Set(&c); err != nil {
		return WrapError(KindInvalidInput, "failed to set ceiling defaults", err)
	}
	if err := envconfig.Process("", &c); err != nil {
		return WrapError(KindInvalidInput, "failed to load ceilings from environment", err)
	}
	Ceilings = c
	return nil
}

// defaultCredentialOptions applies creasty/defaults and returns a ready
// CredentialOptions, the same defaulting idiom the teacher applies to
// model.Cfg in pkg/configuration.
func defaultCredentialOptions(opts CredentialOptions) (CredentialOptions, error) {
	if err := defaults.Set(&opts); err != nil {
		return opts, WrapError(KindInvalidInput, "failed to set credential option defaults", err)
	}
	if opts.HashAlg == "" {
		opts.HashAlg = DefaultHashAlg
	}
	if err := validateStruct(opts); err != nil {
		return opts, err
	}
	return opts, nil
}

// defaultVerificationOptions applies creasty/defaults and returns a ready
// VerificationOptions.
func defaultVerificationOptions(opts VerificationOptions) (VerificationOptions, error) {
	if err := defaults.Set(&opts); err != nil {
		return opts, WrapError(KindInvalidInput, "failed to set verification option defaults", err)
	}
	if err := validateStruct(opts); err != nil {
		return opts, err
	}
	return opts, nil
}
