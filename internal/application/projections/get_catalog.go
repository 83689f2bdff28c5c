package projections

import (
	"context"

	"elearning/internal/domain/class"
	"elearning/internal/domain/course"
)

// CatalogCourse is a course with its scheduled classes.
type CatalogCourse struct {
	course.Course
	Classes []class.Class
}

// GetCatalogDeps holds dependencies for the catalog projection.
type GetCatalogDeps struct {
	Catalog CatalogStore
}

// QueryGetCatalog lists every course with its classes.
// PRE: none
// POST: courses ordered by name; classes by date then time; a course with no
// classes has a non-nil empty Classes slice
func QueryGetCatalog(ctx context.Context, deps GetCatalogDeps) ([]CatalogCourse, error) {
	rows, err := deps.Catalog.ListCatalog(ctx)
	if err != nil {
		return nil, storeError("list catalog", err)
	}
	return groupCatalog(rows), nil
}

func groupCatalog(rows []class.CatalogRow) []CatalogCourse {
	out := []CatalogCourse{}
	for _, r := range rows {
		if n := len(out); n == 0 || out[n-1].ID != r.CourseID {
			out = append(out, CatalogCourse{
				Course:  course.Course{ID: r.CourseID, Name: r.CourseName, Description: r.CourseDescription},
				Classes: []class.Class{},
			})
		}
		if r.Class != nil {
			last := &out[len(out)-1]
			last.Classes = append(last.Classes, *r.Class)
		}
	}
	return out
}
