package compiler

import (
	"regexp"
	"strconv"
)

// aliasPattern matches original_source's platforms/ec2.py and
// platforms/vmware.py check_farm_role: letters, digits and interior
// dashes only, at least two characters.
var aliasPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9-]*[A-Za-z0-9]$`)

// ValidateAlias checks a proposed farm role alias against the pattern both
// platform implementations enforce.
func ValidateAlias(alias string) error {
	if !aliasPattern.MatchString(alias) {
		return &CompileError{Reason: "invalid farm role alias " + strconv.Quote(alias) + ": must contain only letters, numbers and dashes"}
	}
	return nil
}
