/**
 * Copyright 2024 Robert Cronin
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     https://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package builtins is the name -> overload-set registry for the functions
// every OpenABL program gets for free: the vector/geometry helpers and the
// agent-population primitives add/near/save.
package builtins

import "github.com/openabl/openabl/pkg/types"

// ParamKind is one formal parameter slot in a declared builtin signature.
// Most slots require an exact concrete type; AnyAgent is the one wildcard
// atom the spec calls out, matching any agent(decl) actual argument.
type ParamKind int

const (
	PBool ParamKind = iota
	PInt32
	PFloat32
	PString
	PVec2
	PVec3
	PAnyAgent
)

func (k ParamKind) accepts(t types.Type) bool {
	switch k {
	case PBool:
		return t.Id() == types.Bool
	case PInt32:
		return t.Id() == types.Int32
	case PFloat32:
		return t.Id() == types.Float32
	case PString:
		return t.Id() == types.String
	case PVec2:
		return t.Id() == types.Vec2
	case PVec3:
		return t.Id() == types.Vec3
	case PAnyAgent:
		return t.IsAgent()
	default:
		return false
	}
}

// ReturnKind describes how to compute a matched call's return type.
type ReturnKind int

const (
	RVoid ReturnKind = iota
	RFloat32
	RVec2
	RVec3
	// RArrayOfMatchedAgent builds array(agent) where agent is whichever
	// concrete agent type bound the first PAnyAgent parameter — this is
	// near()'s "array(agent) accepted as a generic atom" case from the
	// spec.
	RArrayOfMatchedAgent
)

// Signature is one declared overload of a builtin name.
type Signature struct {
	ExternalName string
	// Symbol is the internal name backends emit for this overload (e.g.
	// "dot_float2"), matching how OpenABL's original registry stored a
	// separate external/internal name pair.
	Symbol string
	Params []ParamKind
	Return ReturnKind
}

// Registry is a name -> overload-set lookup table, populated once at
// startup.
type Registry struct {
	byName map[string][]Signature
}

func NewRegistry() *Registry {
	return &Registry{byName: map[string][]Signature{}}
}

// Add registers one overload under externalName.
func (r *Registry) Add(externalName, symbol string, params []ParamKind, ret ReturnKind) {
	r.byName[externalName] = append(r.byName[externalName], Signature{
		ExternalName: externalName,
		Symbol:       symbol,
		Params:       params,
		Return:       ret,
	})
}

// Match is the outcome of Resolve: the chosen signature plus its
// instantiated (concrete) parameter and return types.
type Match struct {
	Sig        Signature
	ParamTypes []types.Type
	ReturnType types.Type
}

// Resolve finds the unique overload of name whose parameter kinds accept
// actualTypes. It returns (match, known, ok): known is false when no builtin
// has that name at all, and ok is true only when exactly one overload
// matches. No match and an ambiguous match both return (nil, true, false);
// Ambiguous tells the two apart.
func (r *Registry) Resolve(name string, actualTypes []types.Type) (*Match, bool, bool) {
	sigs, ok := r.byName[name]
	if !ok {
		return nil, false, false // unknown name entirely
	}

	var matches []Match
	for _, sig := range sigs {
		if len(sig.Params) != len(actualTypes) {
			continue
		}
		ok := true
		var matchedAgent types.Type
		for i, p := range sig.Params {
			if !p.accepts(actualTypes[i]) {
				ok = false
				break
			}
			if p == PAnyAgent {
				matchedAgent = actualTypes[i]
			}
		}
		if !ok {
			continue
		}
		ret := returnType(sig.Return, matchedAgent)
		matches = append(matches, Match{Sig: sig, ParamTypes: actualTypes, ReturnType: ret})
	}

	switch len(matches) {
	case 0:
		return nil, true, false // known name, no matching overload
	case 1:
		return &matches[0], true, true
	default:
		return nil, true, false // ambiguous: callers use Ambiguous to tell this from no match
	}
}

// Ambiguous re-runs matching to distinguish "no match" from "ambiguous
// match" for diagnostics, since Resolve collapses both to a single bool.
func (r *Registry) Ambiguous(name string, actualTypes []types.Type) bool {
	sigs := r.byName[name]
	count := 0
	for _, sig := range sigs {
		if len(sig.Params) != len(actualTypes) {
			continue
		}
		ok := true
		for i, p := range sig.Params {
			if !p.accepts(actualTypes[i]) {
				ok = false
				break
			}
		}
		if ok {
			count++
		}
	}
	return count > 1
}

func returnType(k ReturnKind, matchedAgent types.Type) types.Type {
	switch k {
	case RVoid:
		return types.VoidT
	case RFloat32:
		return types.Float32T
	case RVec2:
		return types.Vec2T
	case RVec3:
		return types.Vec3T
	case RArrayOfMatchedAgent:
		return types.ArrayOf(matchedAgent)
	default:
		return types.VoidT
	}
}

// StandardLibrary returns a fully-populated registry containing exactly the
// builtins enumerated by the specification.
func StandardLibrary() *Registry {
	r := NewRegistry()
	r.Add("dot", "dot_float2", []ParamKind{PVec2, PVec2}, RFloat32)
	r.Add("dot", "dot_float3", []ParamKind{PVec3, PVec3}, RFloat32)
	r.Add("length", "length_float2", []ParamKind{PVec2}, RFloat32)
	r.Add("length", "length_float3", []ParamKind{PVec3}, RFloat32)
	r.Add("dist", "dist_float2", []ParamKind{PVec2, PVec2}, RFloat32)
	r.Add("dist", "dist_float3", []ParamKind{PVec3, PVec3}, RFloat32)
	r.Add("random", "random_float", []ParamKind{PFloat32, PFloat32}, RFloat32)
	r.Add("random", "random_float2", []ParamKind{PVec2, PVec2}, RVec2)
	r.Add("random", "random_float3", []ParamKind{PVec3, PVec3}, RVec3)

	// Agent-domain builtins.
	r.Add("add", "add", []ParamKind{PAnyAgent}, RVoid)
	r.Add("near", "near", []ParamKind{PAnyAgent, PFloat32}, RArrayOfMatchedAgent)
	r.Add("save", "save", []ParamKind{PString}, RVoid)
	return r
}
