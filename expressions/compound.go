package expressions

import "github.com/opaldb/opal/storage"

type (
	// AndExpression combines two child predicates with a logical AND.
	AndExpression struct {
		left  Expression
		right Expression
	}

	OrExpression struct {
		left  Expression
		right Expression
	}

	NotExpression struct {
		child Expression
	}
)

func NewAndExpression(left, right Expression) *AndExpression {
	return &AndExpression{left: left, right: right}
}

func (e *AndExpression) Walk(tables []storage.Table) error {
	if err := e.left.Walk(tables); err != nil {
		return err
	}
	return e.right.Walk(tables)
}

func (e *AndExpression) Evaluate(row uint64) bool {
	return e.left.Evaluate(row) && e.right.Evaluate(row)
}

func (e *AndExpression) Clone() Expression {
	return NewAndExpression(e.left.Clone(), e.right.Clone())
}

func NewOrExpression(left, right Expression) *OrExpression {
	return &OrExpression{left: left, right: right}
}

func (e *OrExpression) Walk(tables []storage.Table) error {
	if err := e.left.Walk(tables); err != nil {
		return err
	}
	return e.right.Walk(tables)
}

func (e *OrExpression) Evaluate(row uint64) bool {
	return e.left.Evaluate(row) || e.right.Evaluate(row)
}

func (e *OrExpression) Clone() Expression {
	return NewOrExpression(e.left.Clone(), e.right.Clone())
}

func NewNotExpression(child Expression) *NotExpression {
	return &NotExpression{child: child}
}

func (e *NotExpression) Walk(tables []storage.Table) error {
	return e.child.Walk(tables)
}

func (e *NotExpression) Evaluate(row uint64) bool {
	return !e.child.Evaluate(row)
}

func (e *NotExpression) Clone() Expression {
	return NewNotExpression(e.child.Clone())
}
