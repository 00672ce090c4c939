package launcher

// fallbackHelpText is used when a bundle carries no puisne/help.txt
// member, and by the empty-bundle path (S1), which has no manifest to
// read one from at all.
const fallbackHelpText = `usage: program [-- launcher-args [-- passthrough-args]]

launcher-args:
  -m            overlay the extraction via a mount namespace
  -n            skip mounting, run against the extraction directly
  -o over|under which side of the overlay is writable
  -u POLICY     extraction policy: all|new|existing|update|freshen|none
  -d PATH       extraction destination
  -w PATH       scratch work directory for the overlay mount
  -h            print this help and exit
`

// helpText picks the bundle-provided help text when present, falling
// back to the built-in text otherwise, with the bundle's puisne/version.txt
// (if any) appended as a trailing line.
func helpText(m *Manifest) string {
	text := fallbackHelpText
	if m != nil && m.HasHelpText {
		text = m.HelpText
	}
	if m != nil && m.HasVersion {
		text += "\nbundle version: " + m.Version + "\n"
	}
	return text
}
