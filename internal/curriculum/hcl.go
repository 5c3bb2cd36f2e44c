package curriculum

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/coursegrid/internal/course"
	"github.com/vk/coursegrid/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// HCLLoader reads hand-written curricula such as:
//
//	curriculum "0123" {
//	  title = "Ciência da Computação"
//
//	  course "Algoritmos I" {
//	    id           = 1
//	    credit_hours = 68
//	    semester     = 1
//	  }
//
//	  course "Estruturas de Dados" {
//	    id            = 2
//	    credit_hours  = 68
//	    semester      = 2
//	    category      = elective
//	    prerequisites = [1]
//	  }
//	}
//
// The identifiers mandatory, elective and free_elective are predefined.
type HCLLoader struct{}

// hclRoot decodes the top level of a curriculum file.
type hclRoot struct {
	Curricula []*hclCurriculum `hcl:"curriculum,block"`
	Remain    hcl.Body         `hcl:",remain"`
}

type hclCurriculum struct {
	Code    string       `hcl:"code,label"`
	Title   *string      `hcl:"title,optional"`
	Courses []*hclCourse `hcl:"course,block"`
}

// hclCourse keeps id and category as raw expressions so that an omitted
// attribute can be told apart from an explicit zero value.
type hclCourse struct {
	Name          string         `hcl:"name,label"`
	ID            hcl.Expression `hcl:"id,optional"`
	CreditHours   float64        `hcl:"credit_hours"`
	Semester      int            `hcl:"semester"`
	Category      hcl.Expression `hcl:"category,optional"`
	Prerequisites []int          `hcl:"prerequisites,optional"`
	DeclRange     hcl.Range      `hcl:",def_range"`
}

// evalContext defines the identifiers available inside curriculum files.
func evalContext() *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"mandatory":     cty.StringVal(course.Mandatory.String()),
			"elective":      cty.StringVal(course.Elective.String()),
			"free_elective": cty.NumberIntVal(course.FreeElectiveSemester),
		},
	}
}

// Load implements Loader.
func (l *HCLLoader) Load(ctx context.Context, path string) (*Curriculum, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read curriculum file %s: %w", path, err)
	}
	cur, err := l.Parse(ctx, path, src)
	if err != nil {
		return nil, err
	}
	cur.Source = path
	return cur, nil
}

// Parse decodes HCL source. filename is only used in diagnostics. The file
// must contain exactly one curriculum block.
func (l *HCLLoader) Parse(ctx context.Context, filename string, src []byte) (*Curriculum, error) {
	logger := ctxlog.FromContext(ctx)

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}

	var root hclRoot
	evalCtx := evalContext()
	if diags := gohcl.DecodeBody(file.Body, evalCtx, &root); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
	}
	if n := len(root.Curricula); n != 1 {
		return nil, fmt.Errorf("HCL file %s must contain exactly one curriculum block, found %d", filename, n)
	}
	block := root.Curricula[0]

	raws := make([]rawCourse, 0, len(block.Courses))
	for _, c := range block.Courses {
		raw := rawCourse{
			Position:      fmt.Sprintf("course %q (%s)", c.Name, c.DeclRange.String()),
			Name:          c.Name,
			CreditHours:   c.CreditHours,
			Semester:      c.Semester,
			Prerequisites: c.Prerequisites,
		}
		if isExprDefined(c.ID) {
			var id int
			if err := decodeExpr(c.ID, evalCtx, &id); err != nil {
				return nil, fmt.Errorf("%s: invalid id: %w", raw.Position, err)
			}
			raw.ID = &id
		}
		if isExprDefined(c.Category) {
			var cat string
			if err := decodeExpr(c.Category, evalCtx, &cat); err != nil {
				return nil, fmt.Errorf("%s: invalid category: %w", raw.Position, err)
			}
			raw.Category = &cat
		}
		raws = append(raws, raw)
	}
	logger.Debug("Decoded HCL curriculum.", "code", block.Code, "courses", len(raws))

	if err := validate(filename, raws); err != nil {
		return nil, err
	}

	cur := &Curriculum{Code: block.Code, Courses: toCourses(raws)}
	if block.Title != nil {
		cur.Title = *block.Title
	}
	return cur, nil
}

// isExprDefined reports whether an optional attribute was written in the
// source. gohcl fills omitted expression fields with a zero-width
// placeholder, so a nil check is not enough.
func isExprDefined(expr hcl.Expression) bool {
	if expr == nil {
		return false
	}
	r := expr.Range()
	return r.End.Byte > r.Start.Byte
}

// decodeExpr evaluates expr and converts the result into target.
func decodeExpr(expr hcl.Expression, evalCtx *hcl.EvalContext, target any) error {
	val, diags := expr.Value(evalCtx)
	if diags.HasErrors() {
		return diags
	}
	if val.IsNull() {
		return fmt.Errorf("value must not be null")
	}
	return gocty.FromCtyValue(val, target)
}
