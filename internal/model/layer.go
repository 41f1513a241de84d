package model

import "strings"

// LayerSeparator splits a layer name into type and profile.
const LayerSeparator = "_"

// StandardProfile is assigned to layers named with a bare type token,
// the legacy convention that predates per-profile layers.
const StandardProfile = "STANDARD"

// ClassifyLayer maps a layer name to a member type and profile.
// "DIAGONAL_L50X50X3" yields (DIAGONAL, "L50X50X3"); "MONTANTE" yields
// (MONTANTE, "STANDARD"); anything else reports ok=false.
func ClassifyLayer(name string) (t MemberType, profile string, ok bool) {
	upper := strings.ToUpper(strings.TrimSpace(name))

	if prefix, suffix, found := strings.Cut(upper, LayerSeparator); found {
		if mt, known := typeToken(prefix); known {
			return mt, suffix, true
		}
		return "", "", false
	}

	if mt, known := typeToken(upper); known {
		return mt, StandardProfile, true
	}
	return "", "", false
}

// LayerName builds the layer name for a type and profile.
func LayerName(t MemberType, profile string) string {
	return string(t) + LayerSeparator + profile
}

// typeToken matches an already-uppercased token exactly.
func typeToken(s string) (MemberType, bool) {
	switch MemberType(s) {
	case Diagonal, Montante, Banzo:
		return MemberType(s), true
	}
	return "", false
}
