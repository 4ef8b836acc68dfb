package evaluator

import (
	"fmt"
)

// Class is a runtime class value. Method closures point at the
// class-definition environment, never at any instance, so no reference cycle
// forms between a class and its instances.
type Class struct {
	Name       string
	Methods    map[string]*Function
	Superclass *Class
}

func (c *Class) Type() ObjectType { return CLASS_OBJ }
func (c *Class) Inspect() string  { return fmt.Sprintf("<class %s>", c.Name) }

// FindMethod walks the inheritance chain.
func (c *Class) FindMethod(name string) *Function {
	if method, ok := c.Methods[name]; ok {
		return method
	}
	if c.Superclass != nil {
		return c.Superclass.FindMethod(name)
	}
	return nil
}

// Instance is a shared, mutable object. Fields shadow methods on property
// access.
type Instance struct {
	Class  *Class
	Fields map[string]Object
}

func NewInstance(class *Class) *Instance {
	return &Instance{Class: class, Fields: make(map[string]Object)}
}

func (i *Instance) Type() ObjectType { return INSTANCE_OBJ }
func (i *Instance) Inspect() string  { return fmt.Sprintf("<%s instance>", i.Class.Name) }

// Module is the value import() returns. Only the export map is reachable;
// the module's environment stays private.
type Module struct {
	Name    string
	Path    string
	Exports map[string]Object
}

func (m *Module) Type() ObjectType { return MODULE_OBJ }
func (m *Module) Inspect() string  { return fmt.Sprintf("<module %s>", m.Name) }
