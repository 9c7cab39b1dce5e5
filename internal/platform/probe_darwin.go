package platform

// Capabilities queries LocalAuthentication for what is usable right now.
// Probed fresh on every call; a Touch ID enrollment added between calls is
// picked up immediately.
func Capabilities() Capability {
	flags := probeFlags()
	return Capability{
		BiometricsUsable: flags&1 != 0,
		CredentialUsable: flags&2 != 0,
	}
}
