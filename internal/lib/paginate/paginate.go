// Package paginate реализует постраничную разбивку списков.
//
// Правила совпадают с классическим постраничником: последняя страница забирает
// до Orphans "хвостовых" элементов, первая страница пустого списка допустима,
// если разрешено AllowEmptyFirstPage.
package paginate

import (
	"errors"
	"strconv"
)

var (
	// ErrInvalidPage — номер страницы не является целым числом не меньше 1.
	ErrInvalidPage = errors.New("invalid page number")
	// ErrEmptyPage — номер страницы за пределами списка.
	ErrEmptyPage = errors.New("page contains no results")
)

// Paginator делит count элементов на страницы по PerPage.
type Paginator struct {
	PerPage             int
	Orphans             int
	AllowEmptyFirstPage bool
}

// Default — постраничник списка постов.
var Default = Paginator{PerPage: 5, Orphans: 0, AllowEmptyFirstPage: true}

// Page описывает одну страницу.
type Page struct {
	Number      int  `json:"number"`
	NumPages    int  `json:"num_pages"`
	Count       int  `json:"count"`
	Offset      int  `json:"-"`
	Limit       int  `json:"-"`
	HasNext     bool `json:"has_next"`
	HasPrevious bool `json:"has_previous"`
}

// NumPages возвращает число страниц для count элементов.
func (p Paginator) NumPages(count int) int {
	if count == 0 && !p.AllowEmptyFirstPage {
		return 0
	}
	hits := count - p.Orphans
	if hits < 1 {
		hits = 1
	}
	if p.PerPage < 1 {
		return 1
	}
	return (hits + p.PerPage - 1) / p.PerPage
}

// ParsePage разбирает номер страницы из строки запроса. Пустая строка означает первую страницу.
func ParsePage(raw string) (int, error) {
	if raw == "" {
		return 1, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, ErrInvalidPage
	}
	return n, nil
}

// Page возвращает границы страницы number для count элементов.
func (p Paginator) Page(number, count int) (Page, error) {
	if number < 1 {
		return Page{}, ErrInvalidPage
	}
	numPages := p.NumPages(count)
	if number > numPages {
		if number == 1 && p.AllowEmptyFirstPage {
			numPages = 1
		} else {
			return Page{}, ErrEmptyPage
		}
	}
	offset := (number - 1) * p.PerPage
	limit := p.PerPage
	if number == numPages {
		limit = count - offset
		if limit < 0 {
			limit = 0
		}
	}
	return Page{
		Number:      number,
		NumPages:    numPages,
		Count:       count,
		Offset:      offset,
		Limit:       limit,
		HasNext:     number < numPages,
		HasPrevious: number > 1,
	}, nil
}
