package profile

import (
	"embed"
	"encoding/json"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"reflect"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/stoewer/go-strcase"
)

//go:embed types.go
var typesGoFile embed.FS

// SchemaID is the $id of the generated profile schema.
const SchemaID = "https://schemas.casegen.dev/v1/profile.json"

// NewReflector returns a reflector that names keys and definitions in
// snake_case and pulls descriptions from the doc comments in types.go.
func NewReflector() (*jsonschema.Reflector, error) {
	r := &jsonschema.Reflector{
		KeyNamer: strcase.SnakeCase,
		Namer: func(t reflect.Type) string {
			return strcase.SnakeCase(t.Name())
		},
		ExpandedStruct:             true,
		RequiredFromJSONSchemaTags: true,
	}

	comments, err := extractComments(reflect.TypeOf(Profile{}).PkgPath())
	if err != nil {
		return nil, err
	}
	r.CommentMap = comments
	return r, nil
}

// Schema returns the JSON Schema for profile YAML files.
func Schema() ([]byte, error) {
	r, err := NewReflector()
	if err != nil {
		return nil, err
	}

	s := r.Reflect(&Profile{})
	s.ID = jsonschema.ID(SchemaID)
	s.Title = "casegen profile"
	return json.MarshalIndent(s, "", "  ")
}

func extractComments(pkg string) (map[string]string, error) {
	src, err := typesGoFile.ReadFile("types.go")
	if err != nil {
		return nil, err
	}

	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, "types.go", src, parser.ParseComments)
	if err != nil {
		return nil, err
	}

	comments := make(map[string]string)
	typ := ""
	ast.Inspect(f, func(n ast.Node) bool {
		switch x := n.(type) {
		case *ast.GenDecl:
			if x.Tok == token.TYPE && len(x.Specs) == 1 {
				if spec, ok := x.Specs[0].(*ast.TypeSpec); ok && spec.Doc == nil {
					spec.Doc = x.Doc
				}
			}
		case *ast.TypeSpec:
			typ = ""
			if ast.IsExported(x.Name.Name) {
				typ = x.Name.Name
				if txt := strings.TrimSpace(x.Doc.Text()); txt != "" {
					comments[fmt.Sprintf("%s.%s", pkg, typ)] = txt
				}
			}
		case *ast.Field:
			txt := x.Doc.Text()
			if txt == "" {
				txt = x.Comment.Text()
			}
			if typ == "" || txt == "" {
				return true
			}
			for _, name := range x.Names {
				if ast.IsExported(name.Name) {
					comments[fmt.Sprintf("%s.%s.%s", pkg, typ, name.Name)] = strings.TrimSpace(txt)
				}
			}
		case *ast.FuncDecl:
			typ = ""
			return false
		}
		return true
	})

	return comments, nil
}
