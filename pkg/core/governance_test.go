//go:build governance

package core_test

import (
	"go/types"
	"strings"
	"testing"

	"golang.org/x/tools/go/packages"
)

const modulePath = "github.com/leapstack-labs/shading"

// =============================================================================
// COHESION TEST - Core types must be shared by multiple packages
// =============================================================================

// TestGovernance_CoreCohesion verifies that types in pkg/core are genuinely
// shared across multiple packages. Single-use types belong to their sole consumer.
func TestGovernance_CoreCohesion(t *testing.T) {
	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedImports | packages.NeedTypes |
			packages.NeedTypesInfo | packages.NeedDeps,
	}
	pkgs, err := packages.Load(cfg, modulePath+"/...")
	if err != nil {
		t.Fatalf("Failed to load packages: %v", err)
	}

	coreDefs := make(map[types.Object]string)
	var corePkg *packages.Package
	for _, p := range pkgs {
		if p.PkgPath != modulePath+"/pkg/core" {
			continue
		}
		corePkg = p
		scope := p.Types.Scope()
		for _, name := range scope.Names() {
			if obj := scope.Lookup(name); obj.Exported() {
				coreDefs[obj] = name
			}
		}
		break
	}
	if corePkg == nil {
		t.Fatal("Could not find pkg/core")
	}

	usageMap := make(map[string]map[string]bool)
	for _, name := range coreDefs {
		usageMap[name] = make(map[string]bool)
	}

	for _, p := range pkgs {
		if p.PkgPath == corePkg.PkgPath || strings.HasSuffix(p.PkgPath, "_test") || p.TypesInfo == nil {
			continue
		}
		for _, obj := range p.TypesInfo.Uses {
			if name, ok := coreDefs[obj]; ok {
				usageMap[name][strings.TrimPrefix(p.PkgPath, modulePath+"/")] = true
			}
		}
	}

	for typeName, importers := range usageMap {
		if isCohesionAllowlisted(typeName) {
			continue
		}
		switch len(importers) {
		case 0:
			t.Logf("WARNING: Unused Core Type: %s (consider deleting)", typeName)
		case 1:
			for user := range importers {
				t.Errorf("COHESION VIOLATION: 'core.%s' is used ONLY by '%s'.\n"+
					"   Fix: Move type from pkg/core to %s.", typeName, user, user)
			}
		}
	}
}

// isCohesionAllowlisted returns true for names allowed to have a single user.
func isCohesionAllowlisted(name string) bool {
	allowlist := map[string]bool{
		"Roles":     true, // helper next to Role
		"RoleAdmin": true,
		"RoleUser":  true,
		"RoleTest":  true,
	}
	return allowlist[name]
}

// =============================================================================
// PURITY TEST - No type alias re-exports from non-core packages
// =============================================================================

// TestGovernance_NoTypeAliasReexports ensures internal packages use core types
// directly instead of re-exporting them under aliases.
func TestGovernance_NoTypeAliasReexports(t *testing.T) {
	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedImports | packages.NeedTypes,
	}
	pkgs, err := packages.Load(cfg, modulePath+"/internal/...")
	if err != nil {
		t.Fatalf("Failed to load packages: %v", err)
	}

	forbidden := map[string]bool{
		"User": true, "UserInput": true, "UserStats": true, "Post": true, "PaginatedResponse": true, "Role": true,
	}

	for _, pkg := range pkgs {
		if len(pkg.Errors) > 0 {
			continue
		}
		scope := pkg.Types.Scope()
		for _, name := range scope.Names() {
			typeName, ok := scope.Lookup(name).(*types.TypeName)
			if !ok || !typeName.IsAlias() || !forbidden[name] {
				continue
			}
			named, ok := types.Unalias(typeName.Type()).(*types.Named)
			if !ok || named.Obj().Pkg() == nil || named.Obj().Pkg().Path() != modulePath+"/pkg/core" {
				continue
			}
			t.Errorf("PURITY VIOLATION: Package '%s' re-exports core type alias '%s'.\n"+
				"   Fix: Remove the alias. Consumers should use core.%s directly.",
				strings.TrimPrefix(pkg.PkgPath, modulePath+"/"), name, name)
		}
	}
}
