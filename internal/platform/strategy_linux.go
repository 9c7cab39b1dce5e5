package platform

// stagePlan is the Linux counterpart of the darwin policy strategy: the
// native stack has no combined prompt, so the plan is keyed on which
// modalities are usable right now instead of on an OS version.
type stagePlan int

const (
	stageNone stagePlan = iota
	stageBiometricOnly
	stageCredentialOnly
	stageBiometricThenCredential
)

func strategyFor(caps Capability, disableCredential bool) stagePlan {
	credential := caps.CredentialUsable && !disableCredential
	switch {
	case caps.BiometricsUsable && credential:
		return stageBiometricThenCredential
	case caps.BiometricsUsable:
		return stageBiometricOnly
	case credential:
		return stageCredentialOnly
	default:
		return stageNone
	}
}
