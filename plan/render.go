package plan

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/teranos/contentpack/schema"
	"github.com/teranos/contentpack/store"
)

// generatedHeader opens every generated .mjs/.d.ts file.
const generatedHeader = "// NOTE This file is auto-generated by contentpack. Do not edit.\n\n"

// renderDocument produces the per-document JSON data file. Map keys
// marshal in sorted order, so the bytes are a pure function of the
// document content.
func renderDocument(doc store.Document) ([]byte, error) {
	content, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(content, '\n'), nil
}

// renderTypeBarrel produces data/<varName>.mjs. A singleton type
// re-exports its single document's data file; a collection type
// imports every member and exports them as an ordered list.
func renderTypeBarrel(td typeDocs) []byte {
	var sb strings.Builder
	sb.WriteString(generatedHeader)

	varName := schema.VarName(td.Def)
	if td.Def.Singleton {
		ref := td.Docs[0]
		fmt.Fprintf(&sb, "export { default as %s } from './%s/%s.json' with { type: 'json' }\n",
			varName, td.Def.Name, ref.FileName)
		return []byte(sb.String())
	}

	for _, ref := range td.Docs {
		fmt.Fprintf(&sb, "import %s from './%s/%s.json' with { type: 'json' }\n",
			ref.ImportName, td.Def.Name, ref.FileName)
	}
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "export const %s = [", varName)
	for i, ref := range td.Docs {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(ref.ImportName)
	}
	sb.WriteString("]\n")
	return []byte(sb.String())
}

// renderAggregateIndex produces data/index.mjs: re-exports every
// per-type barrel, assembles the flattened allDocuments collection in
// barrel order, and re-exports the type-discrimination helper from the
// runtime support module.
func renderAggregateIndex(grouped []typeDocs) []byte {
	var sb strings.Builder
	sb.WriteString(generatedHeader)

	for _, td := range grouped {
		fmt.Fprintf(&sb, "import { %s } from './%s.mjs'\n",
			schema.VarName(td.Def), schema.VarName(td.Def))
	}
	sb.WriteString("\n")
	for _, td := range grouped {
		fmt.Fprintf(&sb, "export { %s } from './%s.mjs'\n",
			schema.VarName(td.Def), schema.VarName(td.Def))
	}
	sb.WriteString("\nexport const allDocuments = [")
	first := true
	for _, td := range grouped {
		if !first {
			sb.WriteString(", ")
		}
		first = false
		if td.Def.Singleton {
			sb.WriteString(schema.VarName(td.Def))
		} else {
			sb.WriteString("..." + schema.VarName(td.Def))
		}
	}
	sb.WriteString("]\n")
	fmt.Fprintf(&sb, "\nexport { isType } from '%s'\n", RuntimeModule)
	return []byte(sb.String())
}

// renderDataDeclarations produces data/index.d.ts: a typed constant
// per type plus the allDocuments constant typed as the discriminated
// union of all defined types.
func renderDataDeclarations(grouped []typeDocs) []byte {
	var sb strings.Builder
	sb.WriteString(generatedHeader)

	sb.WriteString("import { ")
	for _, td := range grouped {
		fmt.Fprintf(&sb, "%s, ", td.Def.Name)
	}
	sb.WriteString("DocumentTypes } from '../types'\n\n")

	for _, td := range grouped {
		if td.Def.Singleton {
			fmt.Fprintf(&sb, "export declare const %s: %s\n",
				schema.VarName(td.Def), td.Def.Name)
		} else {
			fmt.Fprintf(&sb, "export declare const %s: %s[]\n",
				schema.VarName(td.Def), td.Def.Name)
		}
	}
	sb.WriteString("\nexport declare const allDocuments: DocumentTypes[]\n")
	return []byte(sb.String())
}

// renderTypeDeclarations produces types/index.d.ts. Document shapes
// are not computed by this engine, so each type declares its
// discriminant literal and identifier and stays open for every other
// field.
func renderTypeDeclarations(sch schema.Schema, grouped []typeDocs) []byte {
	var sb strings.Builder
	sb.WriteString(generatedHeader)

	for _, td := range grouped {
		fmt.Fprintf(&sb, "export type %s = {\n", td.Def.Name)
		fmt.Fprintf(&sb, "  %s: '%s'\n", sch.DiscriminantField, td.Def.Name)
		fmt.Fprintf(&sb, "  %s: string\n", store.IDField)
		sb.WriteString("  [field: string]: any\n")
		sb.WriteString("}\n\n")
	}

	sb.WriteString("export type DocumentTypes =")
	for i, td := range grouped {
		if i > 0 {
			sb.WriteString(" |")
		}
		sb.WriteString(" " + td.Def.Name)
	}
	sb.WriteString("\n")
	sb.WriteString("\nexport declare const isType: (typeNames: string | string[]) => (doc: DocumentTypes) => boolean\n")
	return []byte(sb.String())
}

// renderTypesIndex produces types/index.mjs, a static re-export of the
// type-discrimination helper from the runtime support module.
func renderTypesIndex() []byte {
	var sb strings.Builder
	sb.WriteString(generatedHeader)
	fmt.Fprintf(&sb, "export { isType } from '%s'\n", RuntimeModule)
	return []byte(sb.String())
}

// manifest is the static descriptor for the generated package. The
// version is a fixed placeholder, not derived from content.
type manifest struct {
	Name          string                         `json:"name"`
	Description   string                         `json:"description"`
	Version       string                         `json:"version"`
	Exports       map[string]map[string]string   `json:"exports"`
	TypesVersions map[string]map[string][]string `json:"typesVersions"`
}

// renderManifest produces package.json.
func renderManifest() ([]byte, error) {
	m := manifest{
		Name:        "dot-contentpack",
		Description: "Generated content artifacts. Do not edit.",
		Version:     "0.0.0",
		Exports: map[string]map[string]string{
			"./data":  {"import": "./" + DataIndexPath},
			"./types": {"import": "./" + TypesIndexPath},
		},
		TypesVersions: map[string]map[string][]string{
			"*": {
				"data":  {"./" + DataDir},
				"types": {"./" + TypesDir},
			},
		},
	}
	content, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(content, '\n'), nil
}
