// Package plan derives the complete artifact set for one generation
// pass. Planning is pure: no I/O, and the result is a function of the
// schema and snapshot content alone — wherever identifiers influence
// generated output they are consumed in sorted order, never in map
// iteration order.
package plan

import (
	"path"

	"github.com/teranos/contentpack/errors"
	"github.com/teranos/contentpack/schema"
	"github.com/teranos/contentpack/store"
)

// Artifact is one planned output file, its path relative to the
// artifact root. An empty fingerprint means the file is always
// written; a non-empty fingerprint makes it eligible for
// skip-on-match in the selective writer.
type Artifact struct {
	Path        string
	Content     []byte
	Fingerprint string
}

// Layout of the generated package, relative to the artifact root.
const (
	ManifestPath   = "package.json"
	TypesDir       = "types"
	DataDir        = "data"
	TypesDeclPath  = TypesDir + "/index.d.ts"
	TypesIndexPath = TypesDir + "/index.mjs"
	DataDeclPath   = DataDir + "/index.d.ts"
	DataIndexPath  = DataDir + "/index.mjs"
)

// RuntimeModule is the external runtime support package the generated
// artifacts re-export the type-discrimination helper from. Unversioned
// by design: the generated package never pins it.
const RuntimeModule = "contentpack/client"

// docRef carries the derived names for one document of a type, in
// sorted-identifier order within typeDocs.
type docRef struct {
	ID         string
	FileName   string
	ImportName string
	Item       store.CacheItem
}

// typeDocs pairs a type definition with its documents.
type typeDocs struct {
	Def  schema.TypeDef
	Docs []docRef
}

// Plan computes the full artifact set for the schema and snapshot.
// Fatal invariant violations (naming collisions, a singleton with zero
// or multiple documents, a document of an unknown type) abort planning;
// everything else is deterministic assembly.
func Plan(sch schema.Schema, snap store.Snapshot) ([]Artifact, error) {
	if err := sch.Validate(); err != nil {
		return nil, err
	}

	grouped, err := groupByType(sch, snap)
	if err != nil {
		return nil, err
	}

	artifacts := make([]Artifact, 0, len(snap)+len(grouped)+5)

	// Per-document data files, per sorted type then sorted identifier.
	for _, td := range grouped {
		for _, ref := range td.Docs {
			content, err := renderDocument(ref.Item.Document)
			if err != nil {
				return nil, errors.Wrapf(err, "failed to render document %q", ref.ID)
			}
			artifacts = append(artifacts, Artifact{
				Path:        path.Join(DataDir, td.Def.Name, ref.FileName+".json"),
				Content:     content,
				Fingerprint: ref.Item.Fingerprint,
			})
		}
	}

	// Per-type export barrels.
	for _, td := range grouped {
		artifacts = append(artifacts, Artifact{
			Path:    path.Join(DataDir, schema.VarName(td.Def)+".mjs"),
			Content: renderTypeBarrel(td),
		})
	}

	// Aggregates, declarations, manifest. Always written, so no
	// fingerprints.
	manifest, err := renderManifest()
	if err != nil {
		return nil, errors.Wrap(err, "failed to render manifest")
	}
	artifacts = append(artifacts,
		Artifact{Path: DataIndexPath, Content: renderAggregateIndex(grouped)},
		Artifact{Path: DataDeclPath, Content: renderDataDeclarations(grouped)},
		Artifact{Path: TypesDeclPath, Content: renderTypeDeclarations(sch, grouped)},
		Artifact{Path: TypesIndexPath, Content: renderTypesIndex()},
		Artifact{Path: ManifestPath, Content: manifest},
	)

	return artifacts, nil
}

// TypeDirs returns the per-type output subdirectories the artifact set
// needs, relative to the artifact root, in sorted order.
func TypeDirs(sch schema.Schema) []string {
	names := sch.SortedTypeNames()
	dirs := make([]string, 0, len(names)+2)
	dirs = append(dirs, DataDir, TypesDir)
	for _, name := range names {
		dirs = append(dirs, path.Join(DataDir, name))
	}
	return dirs
}

// groupByType buckets the snapshot's documents by type in
// sorted-identifier order and enforces the planner-time invariants:
// every document's discriminant value names a schema type, escaped
// filenames and import bindings are injective within a type, and
// singleton types hold exactly one document.
func groupByType(sch schema.Schema, snap store.Snapshot) ([]typeDocs, error) {
	buckets := make(map[string][]docRef, len(sch.Types))
	for _, id := range snap.SortedIDs() {
		item := snap[id]
		typeName := item.Document.TypeName(sch.DiscriminantField)
		if _, ok := sch.Lookup(typeName); !ok {
			return nil, errors.Wrapf(errors.ErrUnknownDocType,
				"document %q has %s=%q", id, sch.DiscriminantField, typeName)
		}
		buckets[typeName] = append(buckets[typeName], docRef{
			ID:         id,
			FileName:   schema.FileNameForID(id),
			ImportName: schema.ImportNameForID(id),
			Item:       item,
		})
	}

	grouped := make([]typeDocs, 0, len(sch.Types))
	for _, typeName := range sch.SortedTypeNames() {
		def := sch.Types[typeName]
		docs := buckets[typeName]

		varName := schema.VarName(def)
		fileNames := make(map[string]string, len(docs))
		importNames := make(map[string]string, len(docs))
		for _, ref := range docs {
			if ref.ImportName == varName {
				return nil, errors.Wrapf(errors.ErrNamingCollision,
					"document %q shadows exported name %q", ref.ID, varName)
			}
			if prev, ok := fileNames[ref.FileName]; ok {
				return nil, errors.Wrapf(errors.ErrFileNameCollision,
					"documents %q and %q both flatten to %s/%s.json",
					prev, ref.ID, typeName, ref.FileName)
			}
			fileNames[ref.FileName] = ref.ID
			if prev, ok := importNames[ref.ImportName]; ok {
				return nil, errors.Wrapf(errors.ErrNamingCollision,
					"documents %q and %q both bind to import name %q",
					prev, ref.ID, ref.ImportName)
			}
			importNames[ref.ImportName] = ref.ID
		}

		if def.Singleton {
			switch len(docs) {
			case 1:
				// expected
			case 0:
				return nil, errors.Wrapf(errors.ErrEmptySingleton, "type %q", typeName)
			default:
				return nil, errors.Wrapf(errors.ErrSingletonCardinality,
					"type %q has %d documents", typeName, len(docs))
			}
		}

		grouped = append(grouped, typeDocs{Def: def, Docs: docs})
	}
	return grouped, nil
}
