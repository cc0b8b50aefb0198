package ast

// Definitions

type FunctionParameter struct {
	nodeImpl

	Name    *Identifier `json:"name"`
	Default Expression  `json:"default,omitempty"`
}

func NewFunctionParameter(name *Identifier, defaultValue Expression) *FunctionParameter {
	return &FunctionParameter{nodeImpl: newNodeImpl(NodeFunctionParameter), Name: name, Default: defaultValue}
}

type FunctionDefinition struct {
	nodeImpl
	statementMarker

	ID     *Identifier          `json:"id"`
	Params []*FunctionParameter `json:"params"`
	Body   *Block               `json:"body"`
}

func NewFunctionDefinition(id *Identifier, params []*FunctionParameter, body *Block) *FunctionDefinition {
	return &FunctionDefinition{nodeImpl: newNodeImpl(NodeFunctionDefinition), ID: id, Params: params, Body: body}
}

// Name returns the declared function name.
func (f *FunctionDefinition) Name() string {
	if f == nil || f.ID == nil {
		return ""
	}
	return f.ID.Name
}

type ClassDefinition struct {
	nodeImpl
	statementMarker

	ID    *Identifier   `json:"id"`
	Bases []*Identifier `json:"bases,omitempty"`
	Body  *Block        `json:"body"`
}

func NewClassDefinition(id *Identifier, bases []*Identifier, body *Block) *ClassDefinition {
	return &ClassDefinition{nodeImpl: newNodeImpl(NodeClassDefinition), ID: id, Bases: bases, Body: body}
}
